// Package repl implements the interactive query prompt for rune.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runecfg/rune/lang"
	"github.com/runecfg/rune/log"
)

const prompt = "➜ "

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func helpMessage() string {
	return `
Type a dotted path to print its value (e.g. app.server.port).

  keys [path]   List child keys at a path
  help          Print this cruft
  quit          Exit

Completions appear as you type; Tab / Shift-Tab cycle, Space accepts.
Up/Down navigate history. Ctrl+C or Ctrl+D exits.
`
}

// model is the Bubble Tea model for the REPL.
type model struct {
	input     textinput.Model
	cfg       *lang.RuneConfig
	logger    log.Logger
	completer *completer

	history    []string
	historyIdx int
	quitting   bool
}

// Run starts the REPL over a resolved configuration.
func Run(ctx context.Context, cfg *lang.RuneConfig, logger log.Logger) error {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()

	m := model{
		input:     ti,
		cfg:       cfg,
		logger:    logger,
		completer: newCompleter(cfg),
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	banner := hintStyle.Render(
		fmt.Sprintf("%s (%s) - type help for help", m.cfg.Path(), m.cfg.Describe()))
	return tea.Batch(textinput.Blink, tea.Println(banner))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.completer.reset()
		if line == "" {
			return m, nil
		}
		m.history = append(m.history, line)
		m.historyIdx = len(m.history)
		echo := promptStyle.Render(prompt) + line
		out, quit := m.execute(line)
		if quit {
			m.quitting = true
			return m, tea.Sequence(tea.Println(echo), tea.Quit)
		}
		return m, tea.Println(echo + "\n" + out)

	case tea.KeyTab:
		m.completer.cycle(&m.input, 1)
		return m, nil

	case tea.KeyShiftTab:
		m.completer.cycle(&m.input, -1)
		return m, nil

	case tea.KeySpace:
		if m.completer.accept(&m.input) {
			return m, nil
		}

	case tea.KeyUp:
		if m.historyIdx > 0 {
			m.historyIdx--
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIdx < len(m.history) {
			m.historyIdx++
			if m.historyIdx == len(m.history) {
				m.input.SetValue("")
			} else {
				m.input.SetValue(m.history[m.historyIdx])
				m.input.CursorEnd()
			}
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.completer.refresh(m.input.Value())
	return m, cmd
}

// execute runs one REPL line and returns its rendered output and
// whether the REPL should exit.
func (m model) execute(line string) (string, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return "", true
	case "help":
		return hintStyle.Render(helpMessage()), false
	case "keys":
		path := ""
		if len(fields) > 1 {
			path = fields[1]
		}
		keys, err := m.cfg.Keys(path)
		if err != nil {
			return errorStyle.Render(err.Error()), false
		}
		return resultStyle.Render(strings.Join(keys, "\n")), false
	}

	m.logger.Debug("repl query", slog.String("path", line))
	v, err := m.cfg.Value(line)
	if err != nil {
		out := errorStyle.Render(err.Error())
		if hint := m.completer.suggestLine(line); hint != "" {
			out += "\n" + hintStyle.Render(hint)
		}
		return out, false
	}

	switch v.Kind() {
	case lang.KindArray, lang.KindObject:
		b, jerr := v.MarshalJSON()
		if jerr != nil {
			return errorStyle.Render(jerr.Error()), false
		}
		return resultStyle.Render(string(b)), false
	default:
		return resultStyle.Render(v.String()), false
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	view := m.input.View()
	if sugg := m.completer.view(); sugg != "" {
		view += "\n" + sugg
	}
	return view
}
