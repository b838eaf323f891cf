package cli

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/runecfg/rune/profile"
)

var profileGroup = kong.Group{
	Key:   "profile",
	Title: "Profiling flags:",
}

func profileModes() string {
	return strings.Join(profile.Modes(), ", ")
}

// profileConfig holds the optional profiler flags.
type profileConfig struct {
	Mode  string `help:"Profiling mode (${profile_modes})" default:""`
	Dir   string `help:"Profile output directory"          default:""`
	Quiet bool   `help:"Suppress profiler logging"`
}

func (c profileConfig) start() interface{ Stop() } {
	return profile.Config{
		Mode:  c.Mode,
		Path:  c.Dir,
		Quiet: c.Quiet,
	}.Start()
}
