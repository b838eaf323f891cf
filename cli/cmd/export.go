package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/runecfg/rune/log"
)

// Export renders a resolved file as JSON or YAML with exactly three
// top-level sections: globals, items, and metadata.
type Export struct {
	Source string `arg:"" help:"Source file to export" type:"existingfile"`

	Format string `help:"Output format (${enum})" enum:"json,yaml" default:"json" short:"f"`
	Output string `help:"Write to file instead of stdout" short:"o" type:"path"`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context, logger log.Logger) error {
	cfg, err := resolve(e.Source, logger)
	if err != nil {
		return err
	}

	out, err := cfg.ExportJSON()
	if err != nil {
		return err
	}
	if e.Format == "yaml" {
		// convert through JSON so object key order survives
		b, err := yaml.JSONToYAML([]byte(out))
		if err != nil {
			return err
		}
		out = string(b)
	} else {
		out += "\n"
	}

	if e.Output != "" {
		return os.WriteFile(e.Output, []byte(out), 0o644)
	}
	fmt.Print(out)
	return nil
}
