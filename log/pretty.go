package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTime  = lipgloss.NewStyle().Faint(true)
	styleKey   = lipgloss.NewStyle().Faint(true)
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return styleError
	case l >= slog.LevelWarn:
		return styleWarn
	case l >= slog.LevelInfo:
		return styleInfo
	case l >= slog.LevelDebug:
		return styleDebug
	default:
		return styleTrace
	}
}

// prettyHandler renders human-oriented single-line records:
//
//	15:04:05.000 INFO  resolved document path=app.rune items=3
type prettyHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	level      slog.Level
	timeLayout string
	attrs      []slog.Attr
	groups     []string
}

func newPrettyHandler(w io.Writer, level slog.Level, timeLayout string) *prettyHandler {
	return &prettyHandler{
		mu:         &sync.Mutex{},
		w:          w,
		level:      level,
		timeLayout: timeLayout,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(styleTime.Render(r.Time.Format(h.timeLayout)))
		sb.WriteByte(' ')
	}
	sb.WriteString(levelStyle(r.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(levelName(r.Level)))))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		h.appendAttr(&sb, prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *prettyHandler) appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(sb, key, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(styleKey.Render(key + "="))
	sb.WriteString(fmt.Sprint(a.Value.Any()))
}
