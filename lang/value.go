package lang

import (
	"strconv"
	"strings"
)

// ValueKind identifies the dynamic type of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
	KindPattern
)

// String returns a human-readable name for the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindPattern:
		return "pattern"
	default:
		return "invalid"
	}
}

// Value is one resolved configuration value. Values are immutable once
// resolution completes; the zero Value is Null.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
	arr  []Value
	obj  *Object
	pat  *Pattern
}

// Null is the null value.
func Null() Value { return Value{kind: KindNull} }

// String wraps s as a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps n as a number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps b as a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Array wraps elems as an array value. The slice is not copied.
func Array(elems ...Value) Value { return Value{kind: KindArray, arr: elems} }

// ObjectOf wraps obj as an object value.
func ObjectOf(obj *Object) Value { return Value{kind: KindObject, obj: obj} }

// PatternOf wraps pat as a pattern value.
func PatternOf(pat *Pattern) Value { return Value{kind: KindPattern, pat: pat} }

// Kind returns the dynamic type of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string content and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric content and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean content and whether the value is a bool.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// AsArray returns the element slice and whether the value is an array.
// The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object and whether the value is an object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// AsPattern returns the compiled pattern and whether the value is one.
func (v Value) AsPattern() (*Pattern, bool) {
	if v.kind != KindPattern {
		return nil, false
	}
	return v.pat, true
}

// Matches reports whether candidate matches the value: a pattern value
// runs its regex (unanchored), a string value compares exactly, and an
// array value matches when ANY element matches. Other kinds never match.
func (v Value) Matches(candidate string) bool {
	switch v.kind {
	case KindPattern:
		return v.pat.Matches(candidate)
	case KindString:
		return v.str == candidate
	case KindArray:
		for _, e := range v.arr {
			if e.Matches(candidate) {
				return true
			}
		}
	}
	return false
}

// String renders the value for diagnostics. Patterns render as their
// source text; this is not a serialization format.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindPattern:
		return v.pat.Source()
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		return "{" + strings.Join(v.obj.Keys(), ", ") + "}"
	default:
		return "invalid"
	}
}

// formatNumber renders a float the way the language reads it: integers
// without a decimal point.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Object is an insertion-ordered map of normalized keys to values.
// Keys are stored in snake_case; lookups normalize, so kebab-case and
// snake_case spellings address the same entry.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// NormalizeKey converts a key to its canonical snake_case form.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the canonical keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value stored under key (normalized before lookup).
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	v, ok := o.vals[NormalizeKey(key)]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// set stores value under the normalized key. Re-binding an existing
// key overwrites the value but keeps its original position.
func (o *Object) set(key string, value Value) {
	k := NormalizeKey(key)
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = value
}
