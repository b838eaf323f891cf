package lang

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/runecfg/rune/log"
)

// session holds the per-resolution state shared by a document and
// everything it gathers: the collaborators, the compiled pattern memo,
// the import cache, and the in-progress import stack.
type session struct {
	loader  Loader
	environ Environ
	sys     Sysinfo
	logger  log.Logger
	baseDir string

	patterns *patternCache
	cache    map[string]*RuneConfig
	stack    []string
}

func newSession(opts ...Option) *session {
	s := &session{
		loader:   osLoader{},
		environ:  osEnviron{},
		sys:      hostSysinfo{},
		baseDir:  ".",
		patterns: newPatternCache(),
		cache:    make(map[string]*RuneConfig),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveFile loads, parses, and fully resolves the document at path
// along with everything it gathers. Resolution is all-or-nothing: any
// failure anywhere in the import graph fails the whole call.
func ResolveFile(path string, opts ...Option) (*RuneConfig, error) {
	s := newSession(opts...)
	cfg, err := s.resolvePath(filepath.Clean(path))
	if err != nil {
		s.logger.Error("resolution failed", slog.String("path", path), slog.Any("error", err))
		return nil, err
	}
	return cfg, nil
}

// ResolveFileWithFallback resolves primary, or fallback when primary
// cannot be read. Parse and resolution errors in primary are not
// masked; only a missing or unreadable primary falls back. A readable
// primary whose import cannot be read carries ErrImport and does not
// fall back.
func ResolveFileWithFallback(primary, fallback string, opts ...Option) (*RuneConfig, error) {
	cfg, err := ResolveFile(primary, opts...)
	if err != nil && errors.Is(err, ErrRead) && !errors.Is(err, ErrImport) {
		return ResolveFile(fallback, opts...)
	}
	return cfg, err
}

// ResolveString parses and resolves an in-memory document. Imports
// resolve against WithBaseDir (default ".").
func ResolveString(source string, opts ...Option) (*RuneConfig, error) {
	s := newSession(opts...)
	doc, err := parse(source, "")
	if err != nil {
		return nil, err
	}
	return s.evaluate(doc, source, s.baseDir)
}

// resolvePath resolves the document at an already-canonical path,
// serving repeats from the session cache and detecting cycles through
// the in-progress stack.
func (s *session) resolvePath(canonical string) (*RuneConfig, error) {
	if cfg, ok := s.cache[canonical]; ok {
		return cfg, nil
	}
	for _, p := range s.stack {
		if p == canonical {
			chain := append(append([]string{}, s.stack...), canonical)
			return nil, ErrImportCycle.Wrapf("%s", strings.Join(chain, " -> ")).
				With(slog.String("path", canonical))
		}
	}

	text, err := s.loader.Load(canonical)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", canonical))
	}

	s.stack = append(s.stack, canonical)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	doc, err := parse(text, canonical)
	if err != nil {
		return nil, err
	}
	s.logger.Trace("parsed document",
		slog.String("path", canonical),
		slog.Int("globals", len(doc.Globals)),
		slog.Int("items", len(doc.Items)),
		slog.Int("imports", len(doc.Imports)))

	cfg, err := s.evaluate(doc, text, filepath.Dir(canonical))
	if err != nil {
		return nil, err
	}
	s.cache[canonical] = cfg
	return cfg, nil
}

// gatherImports resolves a document's import directives into the alias
// table used by reference resolution. Loader failures surface as import
// errors at the gather line; cycle errors pass through untouched so the
// chain stays readable.
func (s *session) gatherImports(doc *Document, source, dir string) (map[string]*RuneConfig, error) {
	if len(doc.Imports) == 0 {
		return nil, nil
	}
	lines := strings.Split(source, "\n")
	lineText := func(n int) string {
		if n < 1 || n > len(lines) {
			return ""
		}
		return lines[n-1]
	}

	aliases := make(map[string]*RuneConfig, len(doc.Imports))
	for _, imp := range doc.Imports {
		canonical := canonicalImportPath(dir, imp.Path)
		child, err := s.resolvePath(canonical)
		if err != nil {
			if errors.Is(err, ErrImportCycle) {
				return nil, err
			}
			var lerr *Error
			if errors.As(err, &lerr) && lerr.Line() > 0 {
				// parse or resolve failure inside the import: keep its
				// own position rather than the gather line's
				return nil, err
			}
			return nil, ErrImport.Wrap(err).
				With(slog.String("import", imp.Path)).
				at(imp.Line, 0, lineText(imp.Line))
		}
		aliases[imp.Alias] = child
		s.logger.Trace("gathered import",
			slog.String("alias", imp.Alias),
			slog.String("path", canonical))
	}
	return aliases, nil
}

// canonicalImportPath computes the session-wide identity of an import:
// the cleaned path, joined to the importing file's directory when
// relative. Two gathers naming the same file through different
// spellings share one parse.
func canonicalImportPath(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(dir, path))
}
