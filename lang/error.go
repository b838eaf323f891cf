package lang

import (
	"fmt"
	"log/slog"
	"strings"
)

// Error is the error type returned by every operation in this package.
// Each value carries a kind (matchable with errors.Is against the
// sentinel values below), an optional wrapped cause, structured
// attributes for logging, and, when the failure maps to a point in
// source text, a 1-based position and the offending line.
type Error struct {
	kind     string
	err      error
	attrs    []slog.Attr
	line     int
	column   int
	lineText string
}

// Sentinel errors, one per failure kind. Use errors.Is to classify:
//
//	if errors.Is(err, lang.ErrParse) { ... }
var (
	ErrLex          = &Error{kind: "lex error"}
	ErrParse        = &Error{kind: "parse error"}
	ErrImport       = &Error{kind: "import error"}
	ErrImportCycle  = &Error{kind: "import cycle"}
	ErrUnresolved   = &Error{kind: "unresolved reference"}
	ErrTypeMismatch = &Error{kind: "type mismatch"}
	ErrPattern      = &Error{kind: "invalid pattern"}
	ErrNotFound     = &Error{kind: "key not found"}
	ErrWrongType    = &Error{kind: "wrong value type"}
	ErrRead         = &Error{kind: "read error"}
)

// Kind returns the short classification string of the error.
func (e *Error) Kind() string { return e.kind }

// Error returns the kind, position, and cause joined into one line.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.kind)
	if e.line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.line)
		if e.column > 0 {
			fmt.Fprintf(&sb, ", column %d", e.column)
		}
	}
	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}
	return sb.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target shares this error's kind. This is what
// makes the package sentinels usable with errors.Is even though every
// returned error is a distinct enriched copy.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// Wrap returns a copy of e with err recorded as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err
	return &c
}

// Wrapf is shorthand for Wrap(fmt.Errorf(format, args...)).
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With returns a copy of e with the given attributes appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(append([]slog.Attr{}, e.attrs...), attrs...)
	return &c
}

// at returns a copy of e pinned to a source position.
func (e *Error) at(line, column int, lineText string) *Error {
	c := *e
	c.line = line
	c.column = column
	c.lineText = lineText
	return &c
}

// Line returns the 1-based source line of the error, or 0 when the
// error has no position.
func (e *Error) Line() int { return e.line }

// Column returns the 1-based source column of the error, or 0.
func (e *Error) Column() int { return e.column }

// Snippet renders the offending source line with a caret marking the
// error column:
//
//	  12 | port if mode = "dev" 8080 else
//	       ^
//
// It returns "" when the error carries no position.
func (e *Error) Snippet() string {
	if e.line == 0 || e.lineText == "" {
		return ""
	}
	lineNum := fmt.Sprintf("%d", e.line)
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s | %s\n", lineNum, e.lineText)
	if e.column > 0 {
		sb.WriteString(strings.Repeat(" ", len(lineNum)+5+e.column-1))
		sb.WriteString("^")
	}
	return sb.String()
}

// LogValue implements slog.LogValuer so errors log with their kind,
// position, and attributes as structured fields.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs, slog.String("kind", e.kind))
	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line), slog.Int("column", e.column))
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	attrs = append(attrs, e.attrs...)
	return slog.GroupValue(attrs...)
}
