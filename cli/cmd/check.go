package cmd

import (
	"context"
	"fmt"

	"github.com/runecfg/rune/log"
)

// Check parses and resolves a file, reporting the first error or a
// one-line summary on success.
type Check struct {
	Source string `arg:"" help:"Source file to check" type:"existingfile"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, logger log.Logger) error {
	cfg, err := resolve(c.Source, logger)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render("ok") + " " + c.Source + ": " + cfg.Describe())
	return nil
}
