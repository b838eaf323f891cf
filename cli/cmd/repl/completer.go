package repl

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/runecfg/rune/lang"
)

var (
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// completer fuzzy-matches input against every dotted path in the
// configuration and supports Tab-cycling through the candidates.
type completer struct {
	paths   []string
	matches fuzzy.Matches
	idx     int
	cycling bool
	preText string
}

func newCompleter(cfg *lang.RuneConfig) *completer {
	return &completer{paths: cfg.KeyPaths()}
}

func (c *completer) reset() {
	c.matches = nil
	c.idx = 0
	c.cycling = false
	c.preText = ""
}

// refresh recomputes the candidate list for the current input. Called
// on every keystroke that edits the line.
func (c *completer) refresh(input string) {
	c.cycling = false
	input = strings.TrimSpace(input)
	if input == "" {
		c.matches = nil
		return
	}
	c.matches = fuzzy.Find(input, c.paths)
	c.idx = 0
}

// cycle steps through the candidates, replacing the input line with
// the selected path. The pre-cycling text is kept so refresh can
// restart matching from it.
func (c *completer) cycle(input *textinput.Model, dir int) {
	if len(c.matches) == 0 {
		return
	}
	if !c.cycling {
		c.cycling = true
		c.preText = input.Value()
	} else {
		c.idx = (c.idx + dir + len(c.matches)) % len(c.matches)
	}
	input.SetValue(c.matches[c.idx].Str)
	input.CursorEnd()
}

// accept commits the selected candidate, ending the cycle. Reports
// whether a candidate was accepted.
func (c *completer) accept(input *textinput.Model) bool {
	if !c.cycling || len(c.matches) == 0 {
		return false
	}
	input.SetValue(c.matches[c.idx].Str)
	input.CursorEnd()
	c.reset()
	return true
}

// view renders the candidate strip below the prompt, selected entry
// highlighted.
func (c *completer) view() string {
	if len(c.matches) == 0 {
		return ""
	}
	limit := min(len(c.matches), 8)
	parts := make([]string, limit)
	for i := range limit {
		style := suggestionStyle
		if c.cycling && i == c.idx {
			style = selectedStyle
		}
		parts[i] = style.Render(c.matches[i].Str)
	}
	return strings.Join(parts, "  ")
}

// suggestLine builds a did-you-mean line for a failed query.
func (c *completer) suggestLine(path string) string {
	matches := fuzzy.Find(path, c.paths)
	if len(matches) == 0 {
		return ""
	}
	limit := min(len(matches), 3)
	names := make([]string, limit)
	for i := range limit {
		names[i] = matches[i].Str
	}
	return "did you mean: " + strings.Join(names, ", ")
}
