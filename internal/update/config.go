package update

import (
	"time"

	"github.com/sandeepkv93/goaltrack/internal/config"
	"github.com/sandeepkv93/goaltrack/internal/views"
)

// Options tune the UI. Now is the clock used for the initial date and for
// scheduling the first rollover.
type Options struct {
	SchedulerBuffer int
	MarkdownStyle   string
	DayRollover     bool
	Now             func() time.Time
}

func DefaultOptions() Options {
	return Options{
		SchedulerBuffer: 64,
		MarkdownStyle:   views.DefaultMarkdownStyle,
		DayRollover:     true,
		Now:             time.Now,
	}
}

func OptionsFromConfig(cfg config.UIConfig) Options {
	opts := DefaultOptions()
	if cfg.SchedulerBuffer > 0 {
		opts.SchedulerBuffer = cfg.SchedulerBuffer
	}
	if cfg.MarkdownStyle != "" {
		opts.MarkdownStyle = cfg.MarkdownStyle
	}
	opts.DayRollover = !cfg.DisableDayRollover
	return opts
}
