package update

import (
	"testing"

	"github.com/sandeepkv93/goaltrack/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.SchedulerBuffer != 64 || opts.MarkdownStyle != "dark" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if !opts.DayRollover || opts.Now == nil {
		t.Fatalf("expected rollover on and a clock: %+v", opts)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.UIConfig{
		SchedulerBuffer:    128,
		MarkdownStyle:      "notty",
		DisableDayRollover: true,
	})
	if opts.SchedulerBuffer != 128 || opts.MarkdownStyle != "notty" {
		t.Fatalf("unexpected overrides: %+v", opts)
	}
	if opts.DayRollover {
		t.Fatal("expected rollover disabled")
	}

	opts = OptionsFromConfig(config.UIConfig{})
	if opts.SchedulerBuffer != 64 || opts.MarkdownStyle != "dark" || !opts.DayRollover {
		t.Fatalf("expected defaults for zero config: %+v", opts)
	}
}
