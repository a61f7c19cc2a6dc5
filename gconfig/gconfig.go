// Package gconfig loads the engine's gameplay constants — the wire-delay
// budget TOTAL_TICKS and the signal clamp SIGNAL_RANGE — from an INI
// constants module, following the struct-tag-driven loading style used
// throughout the example corpus for hyperparameter files.
package gconfig

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/signalforge/graphengine/signal"
)

// DefaultTotalTicks is the gameplay default wire-delay budget (§4.5).
const DefaultTotalTicks = 64

// signalSection mirrors the "[signal]" INI section.
type signalSection struct {
	RangeMin float64 `ini:"range_min"`
	RangeMax float64 `ini:"range_max"`
}

// delaySection mirrors the "[delay]" INI section.
type delaySection struct {
	TotalTicks int `ini:"total_ticks"`
}

// Constants holds the configured gameplay parameters spec.md §6 calls the
// "constants module".
type Constants struct {
	SignalRange signal.Range
	TotalTicks  int
}

// Default returns the built-in constants without touching the filesystem:
// SIGNAL_RANGE = [-100, 100], TOTAL_TICKS = 64.
func Default() *Constants {
	return &Constants{
		SignalRange: signal.DefaultRange,
		TotalTicks:  DefaultTotalTicks,
	}
}

// Load reads constants from an INI file at path, falling back to Default
// for any section/key that is absent. A malformed file (present but not
// parseable as INI) is reported as an error; a missing path is not —
// callers that want strict "file must exist" behavior should stat first.
func Load(path string) (*Constants, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("gconfig: load %q: %w", path, err)
	}

	var sig signalSection
	sig.RangeMin = float64(cfg.SignalRange.Min)
	sig.RangeMax = float64(cfg.SignalRange.Max)
	if sec := file.Section("signal"); sec != nil {
		if err := sec.MapTo(&sig); err != nil {
			return nil, fmt.Errorf("gconfig: parse [signal]: %w", err)
		}
	}

	var del delaySection
	del.TotalTicks = cfg.TotalTicks
	if sec := file.Section("delay"); sec != nil {
		if err := sec.MapTo(&del); err != nil {
			return nil, fmt.Errorf("gconfig: parse [delay]: %w", err)
		}
	}

	if sig.RangeMin >= sig.RangeMax {
		return nil, fmt.Errorf("gconfig: signal range_min (%v) must be < range_max (%v)", sig.RangeMin, sig.RangeMax)
	}
	if del.TotalTicks < 1 {
		return nil, fmt.Errorf("gconfig: delay total_ticks (%d) must be >= 1", del.TotalTicks)
	}

	return &Constants{
		SignalRange: signal.Range{Min: signal.Signal(sig.RangeMin), Max: signal.Signal(sig.RangeMax)},
		TotalTicks:  del.TotalTicks,
	}, nil
}
