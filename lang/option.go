package lang

import "github.com/runecfg/rune/log"

// Option configures a resolution session.
type Option func(*session)

// WithLoader substitutes the source loader used for imports and for
// ResolveFile itself. The default reads from the filesystem.
func WithLoader(l Loader) Option {
	return func(s *session) { s.loader = l }
}

// WithEnviron substitutes the $env source. The default reads the
// process environment.
func WithEnviron(e Environ) Option {
	return func(s *session) { s.environ = e }
}

// WithSysinfo substitutes the $sys source. The default inspects the
// running host.
func WithSysinfo(si Sysinfo) Option {
	return func(s *session) { s.sys = si }
}

// WithLogger attaches a logger; resolution phases trace through it.
// Without this option the session is silent.
func WithLogger(l log.Logger) Option {
	return func(s *session) { s.logger = l }
}

// WithBaseDir sets the directory against which a string source's
// imports resolve. Ignored by ResolveFile, which uses the file's own
// directory.
func WithBaseDir(dir string) Option {
	return func(s *session) { s.baseDir = dir }
}
