package main

import (
	"context"
	"os"

	"github.com/runecfg/rune/cli"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// diagnostics were already rendered by the failing command
		os.Exit(1)
	}
}
