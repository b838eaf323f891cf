package cmd

import (
	"context"
	"fmt"

	"github.com/runecfg/rune/lang"
	"github.com/runecfg/rune/log"
)

// Get prints the value at a dotted path in a resolved file. Scalars
// print bare; arrays and objects print as JSON.
type Get struct {
	Source string `arg:"" help:"Source file to query" type:"existingfile"`
	Path   string `arg:"" help:"Dotted path, e.g. app.server.port"`

	JSON bool `help:"Print scalars as JSON too" short:"j"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context, logger log.Logger) error {
	cfg, err := resolve(g.Source, logger)
	if err != nil {
		return err
	}
	v, err := cfg.Value(g.Path)
	if err != nil {
		return withSuggestions(err, cfg, g.Path)
	}

	switch v.Kind() {
	case lang.KindArray, lang.KindObject:
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	default:
		if g.JSON {
			b, err := v.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Println(v.String())
	}
	return nil
}
