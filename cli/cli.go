// Package cli implements the rune command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/runecfg/rune/cli/cmd"
)

// CLI is the top-level command-line interface for rune.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Profile profileConfig `embed:"" group:"profile" prefix:"profile-"`

	Check  cmd.Check  `cmd:"" help:"Parse and resolve a file, reporting the first error"`
	Get    cmd.Get    `cmd:"" help:"Print the value at a dotted path"`
	Export cmd.Export `cmd:"" help:"Export a resolved file as JSON or YAML"`
	Repl   cmd.Repl   `cmd:"" help:"Query a resolved file interactively"`
}

// Run executes the rune CLI with the given context and arguments. The
// exit function is called with the appropriate exit code on --help and
// usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name("rune"),
		kong.Description("Resolve, query, and export RUNE configuration files."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{logGroup, profileGroup}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{"profile_modes": profileModes()},
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Profile.start().Stop()

	err = ktx.Run(cli.Log.logger())
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd.Render(err))
	}
	return err
}
