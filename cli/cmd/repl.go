package cmd

import (
	"context"

	"github.com/runecfg/rune/cli/cmd/repl"
	"github.com/runecfg/rune/log"
)

// Repl opens an interactive query prompt over a resolved file.
type Repl struct {
	Source string `arg:"" help:"Source file to query" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, logger log.Logger) error {
	cfg, err := resolve(r.Source, logger)
	if err != nil {
		return err
	}
	return repl.Run(ctx, cfg, logger)
}
