package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"json", "console"}
	markdownStyles = []string{"auto", "dark", "light", "notty", "ascii", "dracula", "tokyo-night", "pink"}
)

// Validate performs range checks on the loaded configuration and
// normalizes enum-like strings to lower case. Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must be >= 0 (got %s)", c.Database.BusyTimeout)
	}
	if c.Database.OpTimeout <= 0 {
		return fmt.Errorf("database.op_timeout must be > 0 (got %s)", c.Database.OpTimeout)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if c.Evaluation.WindowDays < 1 || c.Evaluation.WindowDays > 366 {
		return fmt.Errorf("evaluation.window_days must be in [1, 366] (got %d)", c.Evaluation.WindowDays)
	}
	if c.Carryover.LookbackDays < 1 || c.Carryover.LookbackDays > 90 {
		return fmt.Errorf("carryover.lookback_days must be in [1, 90] (got %d)", c.Carryover.LookbackDays)
	}

	if c.UI.SchedulerBuffer <= 0 {
		return fmt.Errorf("ui.scheduler_buffer must be > 0 (got %d)", c.UI.SchedulerBuffer)
	}
	c.UI.MarkdownStyle = strings.ToLower(strings.TrimSpace(c.UI.MarkdownStyle))
	if !slices.Contains(markdownStyles, c.UI.MarkdownStyle) {
		return fmt.Errorf("ui.markdown_style must be one of %v (got %q)", markdownStyles, c.UI.MarkdownStyle)
	}
	return nil
}
