package lang

import (
	"errors"
	"testing"
)

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := lex(src)
	if err != nil {
		t.Fatalf("lex(%q) failed: %v", src, err)
	}
	return toks
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexBasicTokens(t *testing.T) {
	toks := mustLex(t, `name "value" port 8080 debug true opt null`)
	want := []TokenKind{
		TokenIdent, TokenString, TokenIdent, TokenNumber,
		TokenIdent, TokenBool, TokenIdent, TokenNull, TokenEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), toks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
	if toks[1].Text != "value" {
		t.Errorf("string text = %q, want %q", toks[1].Text, "value")
	}
	if toks[3].Num != 8080 {
		t.Errorf("number = %v, want 8080", toks[3].Num)
	}
	if !toks[5].Flag {
		t.Errorf("bool flag = false, want true")
	}
}

func TestLexKeywords(t *testing.T) {
	toks := mustLex(t, "gather as if else end endif None")
	want := []TokenKind{
		TokenGather, TokenAs, TokenIf, TokenElse,
		TokenEnd, TokenEndIf, TokenNull, TokenEOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"a\rb"`, "a\rb"},
		{`"a\\b"`, `a\b`},
		{`"a\"b"`, `a"b`},
		{`"a\'b"`, `a'b`},
		{`"a\$b"`, "a$b"},
		{`"a\{b\}"`, "a{b}"},
		// unknown escapes yield the escaped rune verbatim
		{`"a\qb"`, "aqb"},
	}
	for _, tt := range tests {
		toks := mustLex(t, tt.src)
		if toks[0].Kind != TokenString {
			t.Fatalf("lex(%s): kind = %s, want string", tt.src, toks[0].Kind)
		}
		if toks[0].Text != tt.want {
			t.Errorf("lex(%s) = %q, want %q", tt.src, toks[0].Text, tt.want)
		}
	}
}

func TestLexSingleQuotedString(t *testing.T) {
	toks := mustLex(t, `'hello "world"'`)
	if toks[0].Kind != TokenString || toks[0].Text != `hello "world"` {
		t.Fatalf("got %s %q", toks[0].Kind, toks[0].Text)
	}
}

func TestLexRawStringPreservesBackslashes(t *testing.T) {
	toks := mustLex(t, `r"\.(mkv|mp4)$"`)
	if toks[0].Kind != TokenRawString {
		t.Fatalf("kind = %s, want raw string", toks[0].Kind)
	}
	if toks[0].Text != `\.(mkv|mp4)$` {
		t.Errorf("text = %q, want %q", toks[0].Text, `\.(mkv|mp4)$`)
	}
}

func TestLexRawStringEscapedQuote(t *testing.T) {
	toks := mustLex(t, `r"a\"b"`)
	if toks[0].Text != `a\"b` {
		t.Errorf("text = %q, want %q", toks[0].Text, `a\"b`)
	}
}

func TestLexIdentifierStartingWithR(t *testing.T) {
	toks := mustLex(t, "rhello")
	if toks[0].Kind != TokenIdent || toks[0].Text != "rhello" {
		t.Fatalf("got %s %q, want identifier rhello", toks[0].Kind, toks[0].Text)
	}
}

func TestLexKebabIdentifier(t *testing.T) {
	toks := mustLex(t, "monitor-media true")
	if toks[0].Kind != TokenIdent || toks[0].Text != "monitor-media" {
		t.Fatalf("got %s %q", toks[0].Kind, toks[0].Text)
	}
}

func TestLexNegativeNumber(t *testing.T) {
	toks := mustLex(t, "offset -3.5")
	if toks[1].Kind != TokenNumber || toks[1].Num != -3.5 {
		t.Fatalf("got %s %v, want number -3.5", toks[1].Kind, toks[1].Num)
	}
}

func TestLexCommentsAndNewlines(t *testing.T) {
	toks := mustLex(t, "a 1 # trailing\n# full line\nb 2")
	want := []TokenKind{
		TokenIdent, TokenNumber, TokenNewline,
		TokenNewline, TokenIdent, TokenNumber, TokenEOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexPositions(t *testing.T) {
	toks := mustLex(t, "a 1\n  b 2")
	// a(1,1) 1(1,3) NL b(2,3) 2(2,5)
	checks := []struct{ i, line, col int }{
		{0, 1, 1}, {1, 1, 3}, {3, 2, 3}, {4, 2, 5},
	}
	for _, c := range checks {
		if toks[c.i].Line != c.line || toks[c.i].Column != c.col {
			t.Errorf("token %d at %d:%d, want %d:%d",
				c.i, toks[c.i].Line, toks[c.i].Column, c.line, c.col)
		}
	}
}

func TestLexDollarNamespace(t *testing.T) {
	toks := mustLex(t, "$env.HOME")
	want := []TokenKind{TokenDollar, TokenIdent, TokenDot, TokenIdent, TokenEOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unterminated string", `key "abc`, 1},
		{"unterminated raw string", `key r"abc`, 1},
		{"malformed number", "key 1.2.3", 1},
		{"unexpected character", "key ~", 1},
		{"unterminated on later line", "a 1\nb \"oops", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lex(tt.src)
			if err == nil {
				t.Fatalf("lex(%q) succeeded, want error", tt.src)
			}
			if !errors.Is(err, ErrLex) {
				t.Fatalf("error kind = %v, want ErrLex", err)
			}
			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("error is not *Error: %T", err)
			}
			if lerr.Line() != tt.line {
				t.Errorf("error line = %d, want %d", lerr.Line(), tt.line)
			}
		})
	}
}
