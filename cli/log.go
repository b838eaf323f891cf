package cli

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/runecfg/rune/log"
)

var logGroup = kong.Group{
	Key:   "log",
	Title: "Logging flags:",
}

// logConfig holds the global logging flags shared by every command.
type logConfig struct {
	Level  string `help:"Log level (${enum})"  enum:"trace,debug,info,warn,error" default:"warn"`
	Format string `help:"Log format (${enum})" enum:"text,json,pretty"            default:"pretty"`
}

// logger builds the Logger described by the flags. Flag values are
// validated by kong's enum constraint before this runs.
func (c logConfig) logger() log.Logger {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		level = log.LevelWarn
	}
	format, err := log.ParseFormat(c.Format)
	if err != nil {
		format = log.FormatPretty
	}
	return log.New(os.Stderr,
		log.WithLevel(level),
		log.WithFormat(format),
	)
}
