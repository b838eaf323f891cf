package lang

import "strconv"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// TokenIdent is an identifier or bare key.
	TokenIdent TokenKind = iota

	// TokenString is a quoted string literal with escapes expanded.
	TokenString

	// TokenRawString is a raw string literal r"..." with backslashes
	// preserved verbatim.
	TokenRawString

	// TokenNumber is an integer or decimal literal.
	TokenNumber

	// TokenBool is a boolean literal.
	TokenBool

	// TokenNull is a null literal (null or None).
	TokenNull

	TokenColon
	TokenComma
	TokenEquals
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenDollar
	TokenDot
	TokenAt

	TokenGather
	TokenAs
	TokenIf
	TokenElse
	TokenEnd
	TokenEndIf

	TokenNewline
	TokenEOF
)

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenRawString:
		return "raw string"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "boolean"
	case TokenNull:
		return "null"
	case TokenColon:
		return "':'"
	case TokenComma:
		return "','"
	case TokenEquals:
		return "'='"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenDollar:
		return "'$'"
	case TokenDot:
		return "'.'"
	case TokenAt:
		return "'@'"
	case TokenGather:
		return "'gather'"
	case TokenAs:
		return "'as'"
	case TokenIf:
		return "'if'"
	case TokenElse:
		return "'else'"
	case TokenEnd:
		return "'end'"
	case TokenEndIf:
		return "'endif'"
	case TokenNewline:
		return "newline"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is a single lexeme with its 1-based source position.
// Text holds the literal content for identifiers and strings,
// Num the parsed value for numbers, and Flag the value for booleans.
type Token struct {
	Kind   TokenKind
	Text   string
	Num    float64
	Flag   bool
	Line   int
	Column int
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenIdent:
		return "'" + t.Text + "'"
	case TokenString, TokenRawString:
		return strconv.Quote(t.Text)
	case TokenNumber:
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case TokenBool:
		return strconv.FormatBool(t.Flag)
	default:
		return t.Kind.String()
	}
}
