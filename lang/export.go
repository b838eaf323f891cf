package lang

import (
	"bytes"
	"encoding/json"
)

// native converts a value to plain Go data: nil, string, float64,
// bool, []any, or map[string]any. Patterns become their source text.
// Object key order is lost; use MarshalJSON when order matters.
func (v Value) native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindPattern:
		return v.pat.Source()
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.native()
		}
		return out
	case KindObject:
		return v.obj.native()
	default:
		return nil
	}
}

func (o *Object) native() map[string]any {
	out := make(map[string]any, o.Len())
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		out[k] = v.native()
	}
	return out
}

// Native converts the value to plain Go data.
func (v Value) Native() any { return v.native() }

// ToMap converts the configuration to plain Go data with exactly three
// top-level keys: globals, items, and metadata.
func (c *RuneConfig) ToMap() map[string]any {
	return map[string]any{
		"globals":  c.globals.native(),
		"items":    c.items.native(),
		"metadata": c.metadata.native(),
	}
}

// MarshalJSON implements json.Marshaler with object keys in document
// order and the three top-level sections in fixed order.
func (c *RuneConfig) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	sections := []struct {
		name string
		obj  *Object
	}{
		{"globals", c.globals},
		{"items", c.items},
		{"metadata", c.metadata},
	}
	for i, s := range sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + s.name + `":`)
		b, err := s.obj.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExportJSON renders the configuration as indented JSON.
func (c *RuneConfig) ExportJSON() (string, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON implements json.Marshaler preserving insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v, _ := o.Get(k)
		vb, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler. Patterns serialize as their
// source text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return json.Marshal(v.native())
	}
}
