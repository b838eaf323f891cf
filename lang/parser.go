package lang

import (
	"fmt"
	"path/filepath"
	"strings"
)

// parser builds a Document from the token stream. It is a plain
// recursive-descent parser with one token of effective lookahead;
// the grammar needs nothing more.
type parser struct {
	toks  []Token
	pos   int
	path  string
	lines []string
}

// parse lexes and parses source. path labels the document for
// diagnostics and import resolution; it may be empty for in-memory
// sources.
func parse(source, path string) (*Document, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:  toks,
		path:  path,
		lines: strings.Split(source, "\n"),
	}
	return p.parseDocument()
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) expect(kind TokenKind) (Token, error) {
	t := p.next()
	if t.Kind != kind {
		return t, p.errorAt(t, fmt.Errorf("expected %s, found %s", kind, t))
	}
	return t, nil
}

func (p *parser) skipNewlines() {
	for p.at(TokenNewline) {
		p.next()
	}
}

// skipSeparators is skipNewlines plus commas, used inside arrays.
func (p *parser) skipSeparators() {
	for p.at(TokenNewline) || p.at(TokenComma) {
		p.next()
	}
}

func (p *parser) lineText(line int) string {
	if line < 1 || line > len(p.lines) {
		return ""
	}
	return p.lines[line-1]
}

func (p *parser) errorAt(t Token, cause error) *Error {
	return ErrParse.Wrap(cause).at(t.Line, t.Column, p.lineText(t.Line))
}

// endStatement requires the current statement to be followed by a line
// break or one of the tokens that legitimately close its context.
func (p *parser) endStatement() error {
	switch t := p.peek(); t.Kind {
	case TokenNewline:
		p.next()
		return nil
	case TokenEOF, TokenEnd, TokenElse, TokenEndIf:
		return nil
	default:
		return p.errorAt(t, fmt.Errorf("unexpected %s after value", t))
	}
}

func (p *parser) parseDocument() (*Document, error) {
	doc := &Document{Path: p.path}
	for {
		p.skipNewlines()
		switch t := p.peek(); t.Kind {
		case TokenEOF:
			return doc, nil
		case TokenAt:
			m, err := p.parseMetadata()
			if err != nil {
				return nil, err
			}
			doc.Metadata = append(doc.Metadata, m)
		case TokenGather:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			doc.Imports = append(doc.Imports, imp)
		case TokenIdent:
			if err := p.parseTopLevel(doc); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorAt(t, fmt.Errorf("unexpected %s at top level", t))
		}
	}
}

func (p *parser) parseMetadata() (MetaBinding, error) {
	at := p.next() // @
	key, err := p.expect(TokenIdent)
	if err != nil {
		return MetaBinding{}, err
	}
	val := p.next()
	if val.Kind != TokenString {
		return MetaBinding{}, p.errorAt(val,
			fmt.Errorf("metadata value must be a string, found %s", val))
	}
	if err := p.endStatement(); err != nil {
		return MetaBinding{}, err
	}
	return MetaBinding{Key: key.Text, Value: val.Text, Line: at.Line}, nil
}

func (p *parser) parseImport() (ImportDirective, error) {
	kw := p.next() // gather
	path, err := p.expect(TokenString)
	if err != nil {
		return ImportDirective{}, err
	}
	alias := fileStem(path.Text)
	if p.at(TokenAs) {
		p.next()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return ImportDirective{}, err
		}
		alias = name.Text
	}
	if err := p.endStatement(); err != nil {
		return ImportDirective{}, err
	}
	return ImportDirective{Path: path.Text, Alias: alias, Line: kw.Line}, nil
}

// fileStem returns the default import alias for a path: the base name
// without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseTopLevel handles an identifier at the top of the file: either an
// item block (name:) or a global binding.
func (p *parser) parseTopLevel(doc *Document) error {
	name := p.next()
	if p.at(TokenColon) {
		p.next()
		obj, err := p.parseObject(name)
		if err != nil {
			return err
		}
		doc.Items = append(doc.Items, Binding{Key: name.Text, Value: obj, Line: name.Line})
		return p.endStatement()
	}
	if p.at(TokenEquals) {
		p.next()
	}
	val, err := p.parseValue()
	if err != nil {
		return err
	}
	doc.Globals = append(doc.Globals, Binding{Key: name.Text, Value: val, Line: name.Line})
	return p.endStatement()
}

// parseObject consumes entries up to the matching end keyword. The
// opening "name:" has already been consumed; open is used for the
// unclosed-block diagnostic.
func (p *parser) parseObject(open Token) (*Expr, error) {
	entries, err := p.parseEntries(open, TokenEnd)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprObject, Line: open.Line, Column: open.Column, Entries: entries}, nil
}

// parseEntries consumes object or conditional-branch entries until one
// of the stop tokens is next. The stop token itself is not consumed.
func (p *parser) parseEntries(open Token, stops ...TokenKind) ([]Entry, error) {
	var entries []Entry
	for {
		p.skipNewlines()
		t := p.peek()
		for _, s := range stops {
			if t.Kind == s {
				return entries, nil
			}
		}
		switch t.Kind {
		case TokenEOF:
			return nil, p.errorAt(open,
				fmt.Errorf("block %q is never closed", open.Text))
		case TokenIf:
			blk, err := p.parseIfBlock()
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{If: blk})
		case TokenIdent:
			b, err := p.parseEntryBinding()
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Binding: &b})
		default:
			return nil, p.errorAt(t, fmt.Errorf("unexpected %s in block", t))
		}
	}
}

func (p *parser) parseEntryBinding() (Binding, error) {
	name := p.next()
	if p.at(TokenColon) {
		p.next()
		obj, err := p.parseObject(name)
		if err != nil {
			return Binding{}, err
		}
		if err := p.endStatement(); err != nil {
			return Binding{}, err
		}
		return Binding{Key: name.Text, Value: obj, Line: name.Line}, nil
	}
	if p.at(TokenEquals) {
		p.next()
	}
	val, err := p.parseValue()
	if err != nil {
		return Binding{}, err
	}
	if err := p.endStatement(); err != nil {
		return Binding{}, err
	}
	return Binding{Key: name.Text, Value: val, Line: name.Line}, nil
}

// parseIfBlock consumes a block conditional:
//
//	if <cond>:
//	  ...
//	else:
//	  ...
//	endif
func (p *parser) parseIfBlock() (*IfBlock, error) {
	kw := p.next() // if
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	then, err := p.parseEntries(kw, TokenElse, TokenEndIf)
	if err != nil {
		return nil, err
	}
	blk := &IfBlock{Cond: cond, Then: then, Line: kw.Line}
	if p.at(TokenElse) {
		p.next()
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		blk.Else, err = p.parseEntries(kw, TokenEndIf)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenEndIf); err != nil {
		return nil, err
	}
	return blk, nil
}

// parseCondition consumes "<operand> = <operand>".
func (p *parser) parseCondition() (*Condition, error) {
	at := p.peek()
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &Condition{Left: left, Right: right, Line: at.Line}, nil
}

// parseOperand is parseValue restricted to scalar forms: literals,
// references, and the $env/$sys namespaces. Arrays, objects, and
// nested conditionals are not condition operands.
func (p *parser) parseOperand() (*Expr, error) {
	switch t := p.peek(); t.Kind {
	case TokenString, TokenNumber, TokenBool, TokenNull, TokenIdent, TokenDollar:
		return p.parseValue()
	default:
		return nil, p.errorAt(t, fmt.Errorf("expected condition operand, found %s", t))
	}
}

func (p *parser) parseValue() (*Expr, error) {
	switch t := p.peek(); t.Kind {
	case TokenString:
		p.next()
		return &Expr{Kind: ExprLiteral, Line: t.Line, Column: t.Column, Lit: String(t.Text)}, nil
	case TokenNumber:
		p.next()
		return &Expr{Kind: ExprLiteral, Line: t.Line, Column: t.Column, Lit: Number(t.Num)}, nil
	case TokenBool:
		p.next()
		return &Expr{Kind: ExprLiteral, Line: t.Line, Column: t.Column, Lit: Bool(t.Flag)}, nil
	case TokenNull:
		p.next()
		return &Expr{Kind: ExprLiteral, Line: t.Line, Column: t.Column, Lit: Null()}, nil
	case TokenRawString:
		p.next()
		return &Expr{Kind: ExprRawString, Line: t.Line, Column: t.Column, Raw: t.Text}, nil
	case TokenIdent:
		return p.parseReference()
	case TokenDollar:
		return p.parseNamespace()
	case TokenLBracket:
		return p.parseArray()
	case TokenIf:
		return p.parseInlineCond()
	default:
		p.next()
		return nil, p.errorAt(t, fmt.Errorf("expected value, found %s", t))
	}
}

// parseReference consumes "ident" or "ident.ident..." into a path.
func (p *parser) parseReference() (*Expr, error) {
	head := p.next()
	path := []string{head.Text}
	for p.at(TokenDot) {
		p.next()
		seg, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Text)
	}
	return &Expr{Kind: ExprRef, Line: head.Line, Column: head.Column, Path: path}, nil
}

// parseNamespace consumes "$env.NAME" or "$sys.KEY".
func (p *parser) parseNamespace() (*Expr, error) {
	dollar := p.next()
	ns, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDot); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	e := &Expr{Line: dollar.Line, Column: dollar.Column, Name: name.Text}
	switch ns.Text {
	case "env":
		e.Kind = ExprEnv
	case "sys":
		e.Kind = ExprSys
	default:
		return nil, p.errorAt(ns,
			fmt.Errorf("unknown namespace $%s, expected $env or $sys", ns.Text))
	}
	return e, nil
}

// parseArray consumes "[...]". Elements may span lines; commas and
// newlines both separate.
func (p *parser) parseArray() (*Expr, error) {
	open := p.next() // [
	var elems []*Expr
	for {
		p.skipSeparators()
		switch t := p.peek(); t.Kind {
		case TokenRBracket:
			p.next()
			return &Expr{Kind: ExprArray, Line: open.Line, Column: open.Column, Elems: elems}, nil
		case TokenEOF:
			return nil, p.errorAt(open, fmt.Errorf("array is never closed"))
		default:
			e, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}
}

// parseInlineCond consumes "if <cond> <then> else <else>"; the else arm
// is optional and defaults to null.
func (p *parser) parseInlineCond() (*Expr, error) {
	kw := p.next() // if
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	e := &Expr{Kind: ExprCond, Line: kw.Line, Column: kw.Column, Cond: cond, Then: then}
	if p.at(TokenElse) {
		p.next()
		e.Else, err = p.parseValue()
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}
