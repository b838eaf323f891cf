package lang

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// countingLoader serves sources from a map and counts loads per path.
type countingLoader struct {
	files map[string]string
	loads map[string]int
}

func newCountingLoader(files map[string]string) *countingLoader {
	return &countingLoader{files: files, loads: make(map[string]int)}
}

func (l *countingLoader) Load(path string) (string, error) {
	l.loads[path]++
	src, ok := l.files[path]
	if !ok {
		return "", fmt.Errorf("no such file %s", path)
	}
	return src, nil
}

func TestGatherAliasedField(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune": `
gather "defaults.rune" as defaults

app:
  host defaults.server.host
  port defaults.server.port
end
`,
		"defaults.rune": `
server:
  host "localhost"
  port 8000
end
`,
	})
	cfg, err := ResolveFile("app.rune", WithLoader(loader))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	wantString(t, cfg, "app.host", "localhost")
	if got, _ := Get[int](cfg, "app.port"); got != 8000 {
		t.Errorf("app.port = %d", got)
	}
}

func TestGatherDefaultAlias(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune":           "gather \"conf/defaults.rune\"\nx defaults.port\n",
		"conf/defaults.rune": "port 8080\n",
	})
	cfg, err := ResolveFile("app.rune", WithLoader(loader))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got, _ := Get[int](cfg, "x"); got != 8080 {
		t.Errorf("x = %d, want 8080", got)
	}
}

func TestGatherImportedGlobal(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune":    "gather \"shared.rune\" as shared\nname shared.region\n",
		"shared.rune": "region \"us-east\"\n",
	})
	cfg, err := ResolveFile("app.rune", WithLoader(loader))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if v, _ := cfg.Global("name"); v.String() != "us-east" {
		t.Errorf("name = %v", v)
	}
}

func TestGatherRelativeToImportingFile(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"conf/app.rune":      "gather \"inner/db.rune\" as db\nurl db.url\n",
		"conf/inner/db.rune": "url \"postgres://x\"\n",
	})
	cfg, err := ResolveFile("conf/app.rune", WithLoader(loader))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if v, _ := cfg.Global("url"); v.String() != "postgres://x" {
		t.Errorf("url = %v", v)
	}
}

func TestGatherParsedOncePerSession(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune": `
gather "a.rune" as a
gather "b.rune" as b
x a.v
y b.v
`,
		"a.rune":      "gather \"shared.rune\" as s\nv s.base\n",
		"b.rune":      "gather \"shared.rune\" as s\nv s.base\n",
		"shared.rune": "base 1\n",
	})
	if _, err := ResolveFile("app.rune", WithLoader(loader)); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if n := loader.loads["shared.rune"]; n != 1 {
		t.Errorf("shared.rune loaded %d times, want 1", n)
	}
}

func TestGatherCycle(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"a.rune": "gather \"b.rune\" as b\nx 1\n",
		"b.rune": "gather \"a.rune\" as a\ny 2\n",
	})
	_, err := ResolveFile("a.rune", WithLoader(loader))
	if !errors.Is(err, ErrImportCycle) {
		t.Fatalf("error = %v, want ErrImportCycle", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "a.rune -> b.rune -> a.rune") {
		t.Errorf("cycle chain missing from %q", msg)
	}
}

func TestGatherSelfCycle(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"a.rune": "gather \"a.rune\" as a\n",
	})
	_, err := ResolveFile("a.rune", WithLoader(loader))
	if !errors.Is(err, ErrImportCycle) {
		t.Fatalf("error = %v, want ErrImportCycle", err)
	}
}

func TestGatherMissingFile(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune": "name \"x\"\ngather \"nope.rune\" as nope\n",
	})
	_, err := ResolveFile("app.rune", WithLoader(loader))
	if !errors.Is(err, ErrImport) {
		t.Fatalf("error = %v, want ErrImport", err)
	}
	var lerr *Error
	if !errors.As(err, &lerr) {
		t.Fatalf("not a *Error: %v", err)
	}
	if lerr.Line() != 2 {
		t.Errorf("error line = %d, want the gather line 2", lerr.Line())
	}
}

func TestGatherParseErrorKeepsItsPosition(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"app.rune": "gather \"bad.rune\" as bad\n",
		"bad.rune": "ok 1\nbroken \"unterminated\n",
	})
	_, err := ResolveFile("app.rune", WithLoader(loader))
	if !errors.Is(err, ErrLex) {
		t.Fatalf("error = %v, want ErrLex from the imported file", err)
	}
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Line() != 2 {
		t.Errorf("error should keep the imported file's line: %v", err)
	}
}

func TestResolveStringWithBaseDir(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"conf/defaults.rune": "port 8080\n",
	})
	cfg, err := ResolveString("gather \"defaults.rune\"\nx defaults.port\n",
		WithLoader(loader), WithBaseDir("conf"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got, _ := Get[int](cfg, "x"); got != 8080 {
		t.Errorf("x = %d", got)
	}
}

func TestResolveFileWithFallback(t *testing.T) {
	loader := newCountingLoader(map[string]string{
		"fallback.rune": "mode \"fallback\"\n",
	})
	cfg, err := ResolveFileWithFallback("missing.rune", "fallback.rune", WithLoader(loader))
	if err != nil {
		t.Fatalf("fallback resolve failed: %v", err)
	}
	if v, _ := cfg.Global("mode"); v.String() != "fallback" {
		t.Errorf("mode = %v", v)
	}

	// a parse error in the primary must not fall back
	loader.files["broken.rune"] = "a \"unterminated\n"
	if _, err := ResolveFileWithFallback("broken.rune", "fallback.rune", WithLoader(loader)); !errors.Is(err, ErrLex) {
		t.Errorf("parse error was masked by fallback: %v", err)
	}

	// a readable primary with a missing import must not fall back either
	loader.files["partial.rune"] = "gather \"nope.rune\" as nope\n"
	_, err = ResolveFileWithFallback("partial.rune", "fallback.rune", WithLoader(loader))
	if !errors.Is(err, ErrImport) {
		t.Errorf("missing import was masked by fallback: %v", err)
	}
}

func TestResolveFileMissing(t *testing.T) {
	loader := newCountingLoader(nil)
	_, err := ResolveFile("nope.rune", WithLoader(loader))
	if !errors.Is(err, ErrRead) {
		t.Fatalf("error = %v, want ErrRead", err)
	}
}
