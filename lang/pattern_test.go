package lang

import (
	"errors"
	"testing"
)

func TestPatternMatchesUnanchored(t *testing.T) {
	cfg := mustResolve(t, `media r"\.(mkv|mp4|avi)$"`+"\n")
	v, _ := cfg.Global("media")
	p, ok := v.AsPattern()
	if !ok {
		t.Fatalf("media is %s, want pattern", v.Kind())
	}
	tests := []struct {
		in   string
		want bool
	}{
		{"movie.mkv", true},
		{"clip.mp4", true},
		{"movie.mkv.txt", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := p.Matches(tt.in); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if p.Source() != `\.(mkv|mp4|avi)$` {
		t.Errorf("Source = %q", p.Source())
	}
}

func TestPatternSubstringMatch(t *testing.T) {
	cfg := mustResolve(t, `p r"bc"`+"\n")
	v, _ := cfg.Global("p")
	p, _ := v.AsPattern()
	if !p.Matches("abcd") {
		t.Errorf("unanchored pattern should match inside the candidate")
	}
}

func TestPatternMemoizedPerSession(t *testing.T) {
	cfg := mustResolve(t, "a r\"^x+$\"\nb r\"^x+$\"\nc r\"^y+$\"\n")
	pa, _ := mustPattern(t, cfg, "a")
	pb, _ := mustPattern(t, cfg, "b")
	pc, _ := mustPattern(t, cfg, "c")
	if pa != pb {
		t.Errorf("identical literals should share one compiled pattern")
	}
	if pa == pc {
		t.Errorf("distinct literals must not share a pattern")
	}
}

func mustPattern(t *testing.T, cfg *RuneConfig, name string) (*Pattern, bool) {
	t.Helper()
	v, ok := cfg.Global(name)
	if !ok {
		t.Fatalf("global %q missing", name)
	}
	p, ok := v.AsPattern()
	if !ok {
		t.Fatalf("global %q is %s, want pattern", name, v.Kind())
	}
	return p, true
}

func TestPatternCompileError(t *testing.T) {
	_, err := ResolveString(`bad r"["`+"\n", hermetic(nil, nil)...)
	if !errors.Is(err, ErrPattern) {
		t.Fatalf("error = %v, want ErrPattern", err)
	}
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Line() != 1 {
		t.Errorf("compile error should carry the source line: %v", err)
	}
}

func TestPatternArrayMatchesAnyElement(t *testing.T) {
	cfg := mustResolve(t, `
allowed [r"^/api/", r"^/health$", "exact"]
`)
	v, _ := cfg.Global("allowed")
	tests := []struct {
		in   string
		want bool
	}{
		{"/api/users", true},
		{"/health", true},
		{"exact", true},
		{"/admin", false},
	}
	for _, tt := range tests {
		if got := v.Matches(tt.in); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValueMatchesNonMatchableKinds(t *testing.T) {
	if Number(1).Matches("1") {
		t.Errorf("numbers should never match")
	}
	if Null().Matches("") {
		t.Errorf("null should never match")
	}
	if !String("x").Matches("x") || String("x").Matches("y") {
		t.Errorf("string matching should be exact equality")
	}
}
