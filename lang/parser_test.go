package lang

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := parse(src, "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func entryKeys(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Binding != nil {
			out = append(out, e.Binding.Key)
		}
	}
	return out
}

func TestParseBasicDocument(t *testing.T) {
	doc := mustParse(t, `
@meta "version1"
global_name "GlobalApp"

app:
  name global_name
  version "1.0.0"
end
`)
	if len(doc.Metadata) != 1 || doc.Metadata[0].Key != "meta" || doc.Metadata[0].Value != "version1" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if len(doc.Globals) != 1 || doc.Globals[0].Key != "global_name" {
		t.Errorf("globals = %+v", doc.Globals)
	}
	if len(doc.Items) != 1 || doc.Items[0].Key != "app" {
		t.Fatalf("items = %+v", doc.Items)
	}
	keys := entryKeys(doc.Items[0].Value.Entries)
	if len(keys) != 2 || keys[0] != "name" || keys[1] != "version" {
		t.Errorf("app entries = %v", keys)
	}
	if doc.Items[0].Value.Entries[0].Binding.Value.Kind != ExprRef {
		t.Errorf("name should be a reference")
	}
}

func TestParseEqualsIsOptional(t *testing.T) {
	doc := mustParse(t, "a = 1\nb 2\n")
	if len(doc.Globals) != 2 {
		t.Fatalf("globals = %+v", doc.Globals)
	}
	for _, g := range doc.Globals {
		if g.Value.Kind != ExprLiteral {
			t.Errorf("%s is not a literal", g.Key)
		}
	}
}

func TestParseArrayAndReference(t *testing.T) {
	doc := mustParse(t, `
servers:
  hosts [
    "host1"
    "host2"
  ]
  mixed ["a", 1, true]
  default default_host
end
`)
	entries := doc.Items[0].Value.Entries
	hosts := entries[0].Binding.Value
	if hosts.Kind != ExprArray || len(hosts.Elems) != 2 {
		t.Fatalf("hosts = %+v", hosts)
	}
	mixed := entries[1].Binding.Value
	if mixed.Kind != ExprArray || len(mixed.Elems) != 3 {
		t.Fatalf("mixed = %+v", mixed)
	}
	def := entries[2].Binding.Value
	if def.Kind != ExprRef || def.Path[0] != "default_host" {
		t.Fatalf("default = %+v", def)
	}
}

func TestParseEmptyArray(t *testing.T) {
	doc := mustParse(t, "list []\nnested:\n  things []\nend\n")
	if doc.Globals[0].Value.Kind != ExprArray || len(doc.Globals[0].Value.Elems) != 0 {
		t.Errorf("list = %+v", doc.Globals[0].Value)
	}
}

func TestParseDottedReference(t *testing.T) {
	doc := mustParse(t, "host defaults.server.host\n")
	ref := doc.Globals[0].Value
	if ref.Kind != ExprRef {
		t.Fatalf("kind = %v", ref.Kind)
	}
	want := []string{"defaults", "server", "host"}
	for i, seg := range want {
		if ref.Path[i] != seg {
			t.Errorf("path[%d] = %q, want %q", i, ref.Path[i], seg)
		}
	}
}

func TestParseImportAliases(t *testing.T) {
	doc := mustParse(t, `
gather "configs/defaults.rune"
gather "shared.rune" as common
`)
	if len(doc.Imports) != 2 {
		t.Fatalf("imports = %+v", doc.Imports)
	}
	if doc.Imports[0].Alias != "defaults" {
		t.Errorf("default alias = %q, want defaults", doc.Imports[0].Alias)
	}
	if doc.Imports[1].Alias != "common" {
		t.Errorf("explicit alias = %q, want common", doc.Imports[1].Alias)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	doc := mustParse(t, `
app:
  server:
    tls:
      enabled true
    end
    port 443
  end
end
`)
	app := doc.Items[0].Value
	server := app.Entries[0].Binding
	if server.Key != "server" || server.Value.Kind != ExprObject {
		t.Fatalf("server = %+v", server)
	}
	tls := server.Value.Entries[0].Binding
	if tls.Key != "tls" || tls.Value.Kind != ExprObject {
		t.Fatalf("tls = %+v", tls)
	}
}

func TestParseInlineConditional(t *testing.T) {
	doc := mustParse(t, `level if $env.DEBUG = "1" "debug" else "info"` + "\n")
	e := doc.Globals[0].Value
	if e.Kind != ExprCond {
		t.Fatalf("kind = %v, want conditional", e.Kind)
	}
	if e.Cond.Left.Kind != ExprEnv || e.Cond.Left.Name != "DEBUG" {
		t.Errorf("left operand = %+v", e.Cond.Left)
	}
	if e.Then == nil || e.Else == nil {
		t.Fatalf("branches: then=%v else=%v", e.Then, e.Else)
	}
}

func TestParseInlineConditionalWithoutElse(t *testing.T) {
	doc := mustParse(t, `opt if mode = "x" 1` + "\n")
	e := doc.Globals[0].Value
	if e.Kind != ExprCond || e.Else != nil {
		t.Fatalf("expected conditional with nil else, got %+v", e)
	}
}

func TestParseBlockConditional(t *testing.T) {
	doc := mustParse(t, `
app:
  if environment = "production":
    replicas 4
    cache true
  else:
    replicas 1
  endif
  name "x"
end
`)
	entries := doc.Items[0].Value.Entries
	if entries[0].If == nil {
		t.Fatalf("first entry is not an if block: %+v", entries[0])
	}
	blk := entries[0].If
	if got := entryKeys(blk.Then); len(got) != 2 || got[0] != "replicas" {
		t.Errorf("then entries = %v", got)
	}
	if got := entryKeys(blk.Else); len(got) != 1 || got[0] != "replicas" {
		t.Errorf("else entries = %v", got)
	}
	if entries[1].Binding == nil || entries[1].Binding.Key != "name" {
		t.Errorf("entry after endif = %+v", entries[1])
	}
}

func TestParseNestedBlockConditional(t *testing.T) {
	doc := mustParse(t, `
app:
  if a = 1:
    if b = 2:
      c 3
    endif
  endif
end
`)
	outer := doc.Items[0].Value.Entries[0].If
	if outer == nil || len(outer.Then) != 1 || outer.Then[0].If == nil {
		t.Fatalf("nested if not parsed: %+v", outer)
	}
}

func TestParseRawStringValue(t *testing.T) {
	doc := mustParse(t, `pattern r"^foo.*bar$"` + "\n")
	e := doc.Globals[0].Value
	if e.Kind != ExprRawString || e.Raw != "^foo.*bar$" {
		t.Fatalf("got %+v", e)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		frag string
	}{
		{"unclosed block", "app:\n  a 1\n", "never closed"},
		{"unclosed array", "list [1, 2\n", "never closed"},
		{"missing colon after condition", "app:\nif a = 1\nx 2\nendif\nend", "expected ':'"},
		{"metadata non-string", "@version 2\n", "must be a string"},
		{"dollar at top level", "$env.HOME\n", "unexpected"},
		{"unknown namespace", "x $runtime.pid\n", "unknown namespace"},
		{"missing endif", "app:\nif a = 1:\nx 2\nend", "unexpected"},
		{"two values on one line", "a 1 2\n", "after value"},
		{"value missing", "a\nb 1\n", "expected value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.src, "")
			if err == nil {
				t.Fatalf("parse(%q) succeeded, want error", tt.src)
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error kind = %v, want ErrParse", err)
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.frag)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	_, err := parse("a 1\nb \"ok\" extra\n", "")
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if lerr.Line() != 2 {
		t.Errorf("line = %d, want 2", lerr.Line())
	}
	snip := lerr.Snippet()
	if !strings.Contains(snip, `2 | b "ok" extra`) || !strings.Contains(snip, "^") {
		t.Errorf("snippet = %q", snip)
	}
}
