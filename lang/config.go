package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// RuneConfig is a fully resolved document: every reference followed,
// every conditional decided, every pattern compiled. It is immutable
// and safe for concurrent reads.
type RuneConfig struct {
	path     string
	source   string
	globals  *Object
	items    *Object
	metadata *Object
}

// Path returns the source path the configuration was resolved from, or
// "" for in-memory sources.
func (c *RuneConfig) Path() string { return c.path }

// Globals returns the resolved global bindings in document order.
func (c *RuneConfig) Globals() *Object { return c.globals }

// Items returns the resolved item tree in document order.
func (c *RuneConfig) Items() *Object { return c.items }

// Metadata returns the @key annotations.
func (c *RuneConfig) Metadata() *Object { return c.metadata }

// Global returns the global binding named name.
func (c *RuneConfig) Global(name string) (Value, bool) {
	return c.globals.Get(name)
}

// Value returns the raw value at a dotted path. The walk starts in
// Items; a head segment that is not an item falls back to Globals, so
// "app.server.port" and "log_level" both work. Segments normalize, so
// kebab-case and snake_case spellings are interchangeable.
func (c *RuneConfig) Value(path string) (Value, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return Null(), ErrNotFound.Wrapf("empty path")
	}
	return c.lookupPath(segs)
}

func (c *RuneConfig) lookupPath(segs []string) (Value, error) {
	head, ok := c.items.Get(segs[0])
	if !ok {
		head, ok = c.globals.Get(segs[0])
	}
	if !ok {
		return Null(), c.notFound(segs, segs[0])
	}
	v := head
	for i, seg := range segs[1:] {
		obj, isObj := v.AsObject()
		if !isObj {
			return Null(), ErrWrongType.
				Wrapf("%s is not an object, cannot descend into %q",
					strings.Join(segs[:i+1], "."), seg).
				With(slog.String("path", strings.Join(segs, ".")))
		}
		v, ok = obj.Get(seg)
		if !ok {
			return Null(), c.notFound(segs, seg)
		}
	}
	return v, nil
}

func (c *RuneConfig) notFound(segs []string, missing string) *Error {
	e := ErrNotFound.
		Wrapf("no value at %s", strings.Join(segs, ".")).
		With(slog.String("missing", missing))
	if line, text, ok := findKeyLine(c.source, segs[0]); ok {
		e = e.at(line, 0, text)
	}
	return e
}

// findKeyLine locates the source line where key is bound, for
// diagnostics on partially wrong paths.
func findKeyLine(source, key string) (int, string, bool) {
	want := NormalizeKey(key)
	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		name, _, _ := strings.Cut(trimmed, " ")
		name = strings.TrimSuffix(strings.TrimSuffix(name, ":"), "=")
		if NormalizeKey(name) == want {
			return i + 1, line, true
		}
	}
	return 0, "", false
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Has reports whether a value exists at the dotted path.
func (c *RuneConfig) Has(path string) bool {
	_, err := c.Value(path)
	return err == nil
}

// Keys returns the child keys of the object at path, in document
// order. An empty path lists the top-level items.
func (c *RuneConfig) Keys(path string) ([]string, error) {
	if path == "" {
		return c.items.Keys(), nil
	}
	v, err := c.Value(path)
	if err != nil {
		return nil, err
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, ErrWrongType.Wrapf("%s is not an object", path)
	}
	return obj.Keys(), nil
}

// KeyPaths returns every dotted path reachable from the top-level
// items, leaves and objects alike, in document order.
func (c *RuneConfig) KeyPaths() []string {
	var out []string
	var walk func(prefix string, obj *Object)
	walk = func(prefix string, obj *Object) {
		for _, k := range obj.Keys() {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			out = append(out, p)
			if v, ok := obj.Get(k); ok {
				if child, isObj := v.AsObject(); isObj {
					walk(p, child)
				}
			}
		}
	}
	walk("", c.items)
	return out
}

// Get returns the value at path converted to T. Both a missing path
// and an inconvertible value are errors.
func Get[T any](c *RuneConfig, path string) (T, error) {
	var zero T
	v, err := c.Value(path)
	if err != nil {
		return zero, err
	}
	out, err := convertValue[T](v, path)
	if err != nil {
		return zero, err
	}
	return out, nil
}

// GetOptional returns the value at path converted to T, with ok=false
// when the path is absent. A present value of the wrong type is still
// an error.
func GetOptional[T any](c *RuneConfig, path string) (T, bool, error) {
	var zero T
	v, err := c.Value(path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}
	out, err := convertValue[T](v, path)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// GetOr returns the value at path converted to T, or fallback when the
// path is absent or the value does not convert.
func GetOr[T any](c *RuneConfig, path string, fallback T) T {
	out, err := Get[T](c, path)
	if err != nil {
		return fallback
	}
	return out
}

// GetStringEnum returns the string at path after checking it is one of
// allowed.
func (c *RuneConfig) GetStringEnum(path string, allowed ...string) (string, error) {
	s, err := Get[string](c, path)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", ErrWrongType.
		Wrapf("%s is %q, must be one of %s", path, s, strings.Join(allowed, ", ")).
		With(slog.String("path", path))
}

// convertValue maps a Value onto a Go type. Numbers are float64 in the
// language; integer targets require an integral value in range.
func convertValue[T any](v Value, path string) (T, error) {
	var out T
	wrong := func(want string) error {
		return ErrWrongType.
			Wrapf("%s is %s, want %s", path, v.Kind(), want).
			With(slog.String("path", path))
	}
	switch p := any(&out).(type) {
	case *Value:
		*p = v
	case *any:
		*p = v.native()
	case *string:
		s, ok := v.AsString()
		if !ok {
			return out, wrong("string")
		}
		*p = s
	case *bool:
		b, ok := v.AsBool()
		if !ok {
			return out, wrong("bool")
		}
		*p = b
	case *float64:
		n, ok := v.AsNumber()
		if !ok {
			return out, wrong("number")
		}
		*p = n
	case *float32:
		n, ok := v.AsNumber()
		if !ok {
			return out, wrong("number")
		}
		*p = float32(n)
	case *int:
		if err := setInt(v, path, p, math.MinInt, math.MaxInt); err != nil {
			return out, err
		}
	case *int64:
		if err := setInt(v, path, p, math.MinInt64, math.MaxInt64); err != nil {
			return out, err
		}
	case *int32:
		if err := setInt(v, path, p, math.MinInt32, math.MaxInt32); err != nil {
			return out, err
		}
	case *int16:
		if err := setInt(v, path, p, math.MinInt16, math.MaxInt16); err != nil {
			return out, err
		}
	case *int8:
		if err := setInt(v, path, p, math.MinInt8, math.MaxInt8); err != nil {
			return out, err
		}
	case *uint:
		if err := setInt(v, path, p, 0, math.MaxUint); err != nil {
			return out, err
		}
	case *uint64:
		if err := setInt(v, path, p, 0, math.MaxUint64); err != nil {
			return out, err
		}
	case *uint32:
		if err := setInt(v, path, p, 0, math.MaxUint32); err != nil {
			return out, err
		}
	case *uint16:
		if err := setInt(v, path, p, 0, math.MaxUint16); err != nil {
			return out, err
		}
	case *uint8:
		if err := setInt(v, path, p, 0, math.MaxUint8); err != nil {
			return out, err
		}
	case **Pattern:
		pat, ok := v.AsPattern()
		if !ok {
			return out, wrong("pattern")
		}
		*p = pat
	case *[]Value:
		arr, ok := v.AsArray()
		if !ok {
			return out, wrong("array")
		}
		*p = append([]Value{}, arr...)
	case *[]string:
		arr, ok := v.AsArray()
		if !ok {
			return out, wrong("array of strings")
		}
		ss := make([]string, len(arr))
		for i, e := range arr {
			s, ok := e.AsString()
			if !ok {
				return out, wrong("array of strings")
			}
			ss[i] = s
		}
		*p = ss
	case *[]float64:
		arr, ok := v.AsArray()
		if !ok {
			return out, wrong("array of numbers")
		}
		ns := make([]float64, len(arr))
		for i, e := range arr {
			n, ok := e.AsNumber()
			if !ok {
				return out, wrong("array of numbers")
			}
			ns[i] = n
		}
		*p = ns
	case *map[string]any:
		obj, ok := v.AsObject()
		if !ok {
			return out, wrong("object")
		}
		*p = obj.native()
	case **Object:
		obj, ok := v.AsObject()
		if !ok {
			return out, wrong("object")
		}
		*p = obj
	default:
		return out, ErrWrongType.Wrapf("unsupported target type %T for %s", out, path)
	}
	return out, nil
}

// setInt stores a number value through any signed or unsigned integer
// pointer after integrality and range checks. Bounds are float64 so
// MaxUint64 fits.
func setInt(v Value, path string, target any, lo, hi float64) error {
	n, ok := v.AsNumber()
	if !ok {
		return ErrWrongType.
			Wrapf("%s is %s, want integer", path, v.Kind()).
			With(slog.String("path", path))
	}
	if n != math.Trunc(n) || n < lo || n > hi {
		return ErrWrongType.
			Wrapf("%s has value %s, out of range for %T", path, formatNumber(n), target).
			With(slog.String("path", path))
	}
	switch p := target.(type) {
	case *int:
		*p = int(n)
	case *int64:
		*p = int64(n)
	case *int32:
		*p = int32(n)
	case *int16:
		*p = int16(n)
	case *int8:
		*p = int8(n)
	case *uint:
		*p = uint(n)
	case *uint64:
		*p = uint64(n)
	case *uint32:
		*p = uint32(n)
	case *uint16:
		*p = uint16(n)
	case *uint8:
		*p = uint8(n)
	}
	return nil
}

// Describe renders a short one-line summary of the configuration for
// logs and the REPL banner.
func (c *RuneConfig) Describe() string {
	return fmt.Sprintf("%d globals, %d items, %d metadata",
		c.globals.Len(), c.items.Len(), c.metadata.Len())
}
