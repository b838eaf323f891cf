package lang

import (
	"fmt"
	"os"
)

// Loader supplies source text for import paths. The default reads from
// the filesystem; tests and embedded configurations substitute their
// own.
type Loader interface {
	Load(path string) (string, error)
}

// Environ supplies values for $env references. ok is false when the
// variable is unset, which resolves to Null rather than failing.
type Environ interface {
	Lookup(name string) (string, bool)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (string, error)

// Load implements Loader.
func (f LoaderFunc) Load(path string) (string, error) { return f(path) }

// EnvironFunc adapts a function to the Environ interface.
type EnvironFunc func(name string) (string, bool)

// Lookup implements Environ.
func (f EnvironFunc) Lookup(name string) (string, bool) { return f(name) }

// MapEnviron returns an Environ backed by a fixed map. Useful for
// tests and for resolving documents hermetically.
func MapEnviron(vars map[string]string) Environ {
	return EnvironFunc(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

type osLoader struct{}

func (osLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

type osEnviron struct{}

func (osEnviron) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}
