// Package profile provides optional runtime profiling for the rune
// command, backed by [github.com/pkg/profile]. Profiling is off unless
// a mode is selected; Start and Stop are always safely callable.
package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"
)

var modes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes, sorted.
func Modes() []string {
	return slices.Sorted(maps.Keys(modes))
}

// Config holds the profiler parameters, typically bound to CLI flags.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

type ignore struct{}

func (ignore) Stop() {}

// Start begins profiling per the config and returns a stopper. An
// empty or unknown mode returns a no-op stopper.
func (c Config) Start() interface{ Stop() } {
	fn, ok := modes[c.Mode]
	if !ok {
		return ignore{}
	}
	opts := []func(*profile.Profile){fn}
	if c.Path != "" {
		opts = append(opts, profile.ProfilePath(c.Path))
	}
	if c.Quiet {
		opts = append(opts, profile.Quiet)
	}
	return profile.Start(opts...)
}
