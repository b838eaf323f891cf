package lang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// lexer converts source text into a flat token stream. Positions are
// 1-based. Comma tokens are emitted so the parser can treat them as
// separators, and newlines are emitted so the parser can detect
// statement boundaries.
type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
	lines  []string
}

func newLexer(source string) *lexer {
	return &lexer{
		src:    []rune(source),
		pos:    0,
		line:   1,
		column: 1,
		lines:  strings.Split(source, "\n"),
	}
}

// lex tokenizes the entire input. The returned stream always ends with
// a TokenEOF token.
func lex(source string) ([]Token, error) {
	lx := newLexer(source)
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

func (lx *lexer) bump() rune {
	r := lx.src[lx.pos]
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r
}

func (lx *lexer) lineText(line int) string {
	if line < 1 || line > len(lx.lines) {
		return ""
	}
	return lx.lines[line-1]
}

func (lx *lexer) errorAt(line, column int, cause error) *Error {
	return ErrLex.Wrap(cause).at(line, column, lx.lineText(line))
}

// next scans and returns the next token.
func (lx *lexer) next() (Token, error) {
	lx.skipBlanks()

	line, column := lx.line, lx.column
	if lx.eof() {
		return Token{Kind: TokenEOF, Line: line, Column: column}, nil
	}

	switch r := lx.peek(); {
	case r == '\n':
		lx.bump()
		return Token{Kind: TokenNewline, Line: line, Column: column}, nil
	case r == '"' || r == '\'':
		return lx.scanString()
	case r == 'r' && (lx.peekAt(1) == '"' || lx.peekAt(1) == '\''):
		return lx.scanRawString()
	case unicode.IsDigit(r):
		return lx.scanNumber(false)
	case r == '-' && unicode.IsDigit(lx.peekAt(1)):
		lx.bump()
		return lx.scanNumber(true)
	case isIdentStart(r):
		return lx.scanIdent()
	}

	kind, ok := punctKind(lx.peek())
	if !ok {
		r := lx.bump()
		return Token{}, lx.errorAt(line, column,
			fmt.Errorf("unexpected character %q", string(r)))
	}
	lx.bump()
	return Token{Kind: kind, Line: line, Column: column}, nil
}

func punctKind(r rune) (TokenKind, bool) {
	switch r {
	case ':':
		return TokenColon, true
	case ',':
		return TokenComma, true
	case '=':
		return TokenEquals, true
	case '[':
		return TokenLBracket, true
	case ']':
		return TokenRBracket, true
	case '(':
		return TokenLParen, true
	case ')':
		return TokenRParen, true
	case '$':
		return TokenDollar, true
	case '.':
		return TokenDot, true
	case '@':
		return TokenAt, true
	}
	return 0, false
}

// skipBlanks consumes horizontal whitespace and comments. Newlines are
// significant and left for next to tokenize.
func (lx *lexer) skipBlanks() {
	for !lx.eof() {
		switch r := lx.peek(); {
		case r == ' ' || r == '\t' || r == '\r':
			lx.bump()
		case r == '#':
			for !lx.eof() && lx.peek() != '\n' {
				lx.bump()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func (lx *lexer) scanIdent() (Token, error) {
	line, column := lx.line, lx.column
	var sb strings.Builder
	for !lx.eof() && isIdentPart(lx.peek()) {
		sb.WriteRune(lx.bump())
	}
	word := sb.String()

	tok := Token{Text: word, Line: line, Column: column}
	switch word {
	case "gather":
		tok.Kind = TokenGather
	case "as":
		tok.Kind = TokenAs
	case "if":
		tok.Kind = TokenIf
	case "else":
		tok.Kind = TokenElse
	case "end":
		tok.Kind = TokenEnd
	case "endif":
		tok.Kind = TokenEndIf
	case "true", "false":
		tok.Kind = TokenBool
		tok.Flag = word == "true"
	case "null", "None":
		tok.Kind = TokenNull
	default:
		tok.Kind = TokenIdent
	}
	return tok, nil
}

func (lx *lexer) scanNumber(negative bool) (Token, error) {
	line, column := lx.line, lx.column
	if negative {
		column--
	}
	var sb strings.Builder
	for !lx.eof() && (unicode.IsDigit(lx.peek()) || lx.peek() == '.') {
		sb.WriteRune(lx.bump())
	}
	text := sb.String()
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, lx.errorAt(line, column,
			fmt.Errorf("malformed number %q", text))
	}
	if negative {
		num = -num
		text = "-" + text
	}
	return Token{Kind: TokenNumber, Text: text, Num: num, Line: line, Column: column}, nil
}

// scanString consumes a quoted string literal, expanding the escape set
// \n \t \r \\ \" \' \$ \{ \}. An unrecognized escape yields the escaped
// rune verbatim.
func (lx *lexer) scanString() (Token, error) {
	line, column := lx.line, lx.column
	quote := lx.bump()
	var sb strings.Builder
	for !lx.eof() {
		r := lx.bump()
		switch r {
		case quote:
			return Token{Kind: TokenString, Text: sb.String(), Line: line, Column: column}, nil
		case '\\':
			if lx.eof() {
				break
			}
			sb.WriteRune(unescape(lx.bump()))
		default:
			sb.WriteRune(r)
		}
	}
	return Token{}, lx.errorAt(line, column, fmt.Errorf("unterminated string"))
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		// \\ \" \' \$ \{ \} and anything else: the rune itself
		return r
	}
}

// scanRawString consumes r"..." with backslashes preserved literally.
// A backslash still prevents the following quote from closing the
// literal, so r"\"" contains a backslash and a quote.
func (lx *lexer) scanRawString() (Token, error) {
	line, column := lx.line, lx.column
	lx.bump() // r
	quote := lx.bump()
	var sb strings.Builder
	for !lx.eof() {
		r := lx.bump()
		switch r {
		case quote:
			return Token{Kind: TokenRawString, Text: sb.String(), Line: line, Column: column}, nil
		case '\\':
			sb.WriteRune(r)
			if !lx.eof() {
				sb.WriteRune(lx.bump())
			}
		default:
			sb.WriteRune(r)
		}
	}
	return Token{}, lx.errorAt(line, column, fmt.Errorf("unterminated raw string"))
}
