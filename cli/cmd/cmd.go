// Package cmd implements the rune subcommands.
package cmd

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/runecfg/rune/lang"
	"github.com/runecfg/rune/log"
)

var (
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// resolve loads and resolves a source file with the session logger
// attached.
func resolve(source string, logger log.Logger) (*lang.RuneConfig, error) {
	return lang.ResolveFile(source, lang.WithLogger(logger))
}

// Render formats an error for the terminal: the message, the source
// snippet when the error carries a position, and any attached hint.
func Render(err error) string {
	var sb strings.Builder
	sb.WriteString(errStyle.Render("error: ") + err.Error())

	var lerr *lang.Error
	if errors.As(err, &lerr) {
		if snip := lerr.Snippet(); snip != "" {
			sb.WriteString("\n" + snippetStyle.Render(snip))
		}
	}
	if hint := hintFor(err); hint != "" {
		sb.WriteString("\n" + hintStyle.Render(hint))
	}
	return sb.String()
}

// hinted wraps an error with a rendering hint, typically a did-you-mean
// line built from fuzzy matches.
type hinted struct {
	err  error
	hint string
}

func (h hinted) Error() string { return h.err.Error() }
func (h hinted) Unwrap() error { return h.err }

func hintFor(err error) string {
	var h hinted
	if errors.As(err, &h) {
		return h.hint
	}
	return ""
}

// withSuggestions decorates a failed lookup with near-miss paths from
// the resolved configuration.
func withSuggestions(err error, cfg *lang.RuneConfig, path string) error {
	if !errors.Is(err, lang.ErrNotFound) && !errors.Is(err, lang.ErrUnresolved) {
		return err
	}
	matches := fuzzy.Find(path, cfg.KeyPaths())
	if len(matches) == 0 {
		return err
	}
	limit := min(len(matches), 3)
	names := make([]string, limit)
	for i := range limit {
		names[i] = matches[i].Str
	}
	return hinted{
		err:  err,
		hint: "did you mean: " + strings.Join(names, ", "),
	}
}
