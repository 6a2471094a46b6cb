package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Carryover  CarryoverConfig  `yaml:"carryover"`
	UI         UIConfig         `yaml:"ui"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path        string        `yaml:"path"         env:"GOALTRACK_DB_PATH"         env-default:"goaltrack.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"GOALTRACK_DB_BUSY_TIMEOUT" env-default:"5s"`
	OpTimeout   time.Duration `yaml:"op_timeout"   env:"GOALTRACK_DB_OP_TIMEOUT"   env-default:"10s"`
}

// LogConfig holds logging settings. An empty File in TUI mode discards logs.
type LogConfig struct {
	Level  string `yaml:"level"  env:"GOALTRACK_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"GOALTRACK_LOG_FORMAT" env-default:"json"`
	File   string `yaml:"file"   env:"GOALTRACK_LOG_FILE"`
}

type EvaluationConfig struct {
	WindowDays int `yaml:"window_days" env:"GOALTRACK_EVAL_WINDOW_DAYS" env-default:"30"`
}

type CarryoverConfig struct {
	LookbackDays int `yaml:"lookback_days" env:"GOALTRACK_CARRYOVER_LOOKBACK_DAYS" env-default:"7"`
}

// UIConfig holds terminal UI settings. The midnight rollover runs unless
// disabled.
type UIConfig struct {
	SchedulerBuffer    int    `yaml:"scheduler_buffer"     env:"GOALTRACK_SCHEDULER_BUFFER"     env-default:"64"`
	MarkdownStyle      string `yaml:"markdown_style"       env:"GOALTRACK_MARKDOWN_STYLE"       env-default:"dark"`
	DisableDayRollover bool   `yaml:"disable_day_rollover" env:"GOALTRACK_DISABLE_DAY_ROLLOVER"`
}
