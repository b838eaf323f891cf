package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// evaluator resolves one parsed document into a RuneConfig. Globals
// resolve lazily so forward references work; items resolve strictly in
// document order so each binding sees only its already-resolved
// siblings.
type evaluator struct {
	s       *session
	lines   []string
	aliases map[string]*RuneConfig

	slots       map[string]*globalSlot
	globalOrder []string
	globalStack []string

	items *Object
}

type globalSlot struct {
	expr  *Expr
	line  int
	val   Value
	state slotState
}

type slotState int

const (
	slotUnresolved slotState = iota
	slotInProgress
	slotDone
)

// evaluate runs the full two-pass resolution for doc: imports first,
// then globals and items.
func (s *session) evaluate(doc *Document, source, dir string) (*RuneConfig, error) {
	aliases, err := s.gatherImports(doc, source, dir)
	if err != nil {
		return nil, err
	}

	ev := &evaluator{
		s:       s,
		lines:   strings.Split(source, "\n"),
		aliases: aliases,
		slots:   make(map[string]*globalSlot),
		items:   NewObject(),
	}

	// pass 1: register globals so any of them can reference any other
	for i := range doc.Globals {
		b := &doc.Globals[i]
		key := NormalizeKey(b.Key)
		if _, ok := ev.slots[key]; !ok {
			ev.globalOrder = append(ev.globalOrder, key)
		}
		ev.slots[key] = &globalSlot{expr: b.Value, line: b.Line}
	}

	// pass 2: force every global, then resolve items in order
	for _, key := range ev.globalOrder {
		if _, err := ev.global(key); err != nil {
			return nil, err
		}
	}
	for _, b := range doc.Items {
		v, err := ev.expr(b.Value, nil)
		if err != nil {
			return nil, err
		}
		ev.items.set(b.Key, v)
	}

	globals := NewObject()
	for _, key := range ev.globalOrder {
		globals.set(key, ev.slots[key].val)
	}
	metadata := NewObject()
	for _, m := range doc.Metadata {
		metadata.set(m.Key, String(m.Value))
	}

	s.logger.Trace("resolved document",
		slog.String("path", doc.Path),
		slog.Int("globals", globals.Len()),
		slog.Int("items", ev.items.Len()))

	return &RuneConfig{
		path:     doc.Path,
		source:   source,
		globals:  globals,
		items:    ev.items,
		metadata: metadata,
	}, nil
}

func (ev *evaluator) lineText(line int) string {
	if line < 1 || line > len(ev.lines) {
		return ""
	}
	return ev.lines[line-1]
}

// global forces the global named key (canonical form) and returns its
// value.
func (ev *evaluator) global(key string) (Value, error) {
	slot, ok := ev.slots[key]
	if !ok {
		return Null(), ErrUnresolved.Wrapf("unknown global %q", key)
	}
	switch slot.state {
	case slotDone:
		return slot.val, nil
	case slotInProgress:
		chain := append(append([]string{}, ev.globalStack...), key)
		return Null(), ErrUnresolved.
			Wrapf("cycle among globals: %s", strings.Join(chain, " -> ")).
			at(slot.line, 0, ev.lineText(slot.line))
	}
	slot.state = slotInProgress
	ev.globalStack = append(ev.globalStack, key)
	v, err := ev.expr(slot.expr, nil)
	ev.globalStack = ev.globalStack[:len(ev.globalStack)-1]
	if err != nil {
		return Null(), err
	}
	slot.val = v
	slot.state = slotDone
	return v, nil
}

// expr resolves a value expression. scopes is the chain of enclosing
// objects under construction, innermost last; each holds only the
// siblings bound before the expression being resolved.
func (ev *evaluator) expr(e *Expr, scopes []*Object) (Value, error) {
	switch e.Kind {
	case ExprLiteral:
		return e.Lit, nil
	case ExprRawString:
		p, err := ev.s.patterns.compile(e.Raw, e.Line, e.Column, ev.lineText(e.Line))
		if err != nil {
			return Null(), err
		}
		return PatternOf(p), nil
	case ExprEnv:
		if v, ok := ev.s.environ.Lookup(e.Name); ok {
			return String(v), nil
		}
		return Null(), nil
	case ExprSys:
		v, err := ev.s.sys.Lookup(NormalizeKey(e.Name))
		if err != nil {
			return Null(), ErrUnresolved.Wrap(err).
				With(slog.String("namespace", "sys")).
				at(e.Line, e.Column, ev.lineText(e.Line))
		}
		return String(v), nil
	case ExprArray:
		elems := make([]Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := ev.expr(el, scopes)
			if err != nil {
				return Null(), err
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case ExprCond:
		ok, err := ev.condition(e.Cond, scopes)
		if err != nil {
			return Null(), err
		}
		if ok {
			return ev.expr(e.Then, scopes)
		}
		if e.Else == nil {
			return Null(), nil
		}
		return ev.expr(e.Else, scopes)
	case ExprObject:
		obj := NewObject()
		if err := ev.entries(e.Entries, append(scopes, obj), obj); err != nil {
			return Null(), err
		}
		return ObjectOf(obj), nil
	case ExprRef:
		return ev.ref(e, scopes)
	default:
		return Null(), ErrUnresolved.Wrapf("unhandled expression kind %d", e.Kind).
			at(e.Line, e.Column, ev.lineText(e.Line))
	}
}

// entries resolves object entries in order into obj, splicing block
// conditionals as it goes. Entries bound earlier become visible to
// later siblings through the scope chain.
func (ev *evaluator) entries(list []Entry, scopes []*Object, obj *Object) error {
	for _, entry := range list {
		switch {
		case entry.Binding != nil:
			v, err := ev.expr(entry.Binding.Value, scopes)
			if err != nil {
				return err
			}
			obj.set(entry.Binding.Key, v)
		case entry.If != nil:
			ok, err := ev.condition(entry.If.Cond, scopes)
			if err != nil {
				return err
			}
			branch := entry.If.Then
			if !ok {
				branch = entry.If.Else
			}
			if err := ev.entries(branch, scopes, obj); err != nil {
				return err
			}
		}
	}
	return nil
}

// ref resolves an identifier or dotted path. A bare identifier checks
// the enclosing scopes innermost-first, then globals. A dotted path is
// an import alias followed by keys into the gathered document, or a
// local name followed by keys into its object value.
func (ev *evaluator) ref(e *Expr, scopes []*Object) (Value, error) {
	head := NormalizeKey(e.Path[0])

	if len(e.Path) == 1 {
		for i := len(scopes) - 1; i >= 0; i-- {
			if v, ok := scopes[i].Get(head); ok {
				return v, nil
			}
		}
		if _, ok := ev.slots[head]; ok {
			return ev.global(head)
		}
		return Null(), ev.unresolved(e, fmt.Errorf("unknown name %q", e.Path[0]))
	}

	if child, ok := ev.aliases[e.Path[0]]; ok {
		v, err := child.lookupPath(e.Path[1:])
		if err != nil {
			return Null(), ev.unresolved(e,
				fmt.Errorf("%s has no value at %s", e.Path[0], strings.Join(e.Path[1:], ".")))
		}
		return v, nil
	}

	// not an alias: resolve the head locally and walk into it
	root, err := ev.localHead(e, head, scopes)
	if err != nil {
		return Null(), err
	}
	v, ok := walkValue(root, e.Path[1:])
	if !ok {
		return Null(), ev.unresolved(e,
			fmt.Errorf("no value at %s", strings.Join(e.Path, ".")))
	}
	return v, nil
}

// localHead resolves the first segment of a non-alias dotted path:
// scopes innermost-first, then globals, then the already-resolved
// items of this document.
func (ev *evaluator) localHead(e *Expr, head string, scopes []*Object) (Value, error) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if v, ok := scopes[i].Get(head); ok {
			return v, nil
		}
	}
	if _, ok := ev.slots[head]; ok {
		return ev.global(head)
	}
	if v, ok := ev.items.Get(head); ok {
		return v, nil
	}
	return Null(), ev.unresolved(e,
		fmt.Errorf("unknown alias or name %q", e.Path[0]))
}

func (ev *evaluator) unresolved(e *Expr, cause error) *Error {
	return ErrUnresolved.Wrap(cause).
		With(slog.String("reference", strings.Join(e.Path, "."))).
		at(e.Line, e.Column, ev.lineText(e.Line))
}

// walkValue descends through object values along path segments.
func walkValue(v Value, path []string) (Value, bool) {
	for _, seg := range path {
		obj, ok := v.AsObject()
		if !ok {
			return Null(), false
		}
		v, ok = obj.Get(seg)
		if !ok {
			return Null(), false
		}
	}
	return v, true
}

// condition evaluates an equality test. Operands drawn from $env or
// $sys compare stringly: the other side is rendered to its string form
// first. Null compares equal only to Null; any other mix of kinds is a
// type-mismatch error.
func (ev *evaluator) condition(c *Condition, scopes []*Object) (bool, error) {
	lv, lstr, err := ev.operand(c.Left, scopes)
	if err != nil {
		return false, err
	}
	rv, rstr, err := ev.operand(c.Right, scopes)
	if err != nil {
		return false, err
	}

	if lv.IsNull() || rv.IsNull() {
		return lv.IsNull() && rv.IsNull(), nil
	}

	if lstr || rstr {
		ls, err := ev.renderScalar(lv, c)
		if err != nil {
			return false, err
		}
		rs, err := ev.renderScalar(rv, c)
		if err != nil {
			return false, err
		}
		return ls == rs, nil
	}

	if lv.Kind() != rv.Kind() {
		return false, ev.mismatch(c, lv.Kind(), rv.Kind())
	}
	switch lv.Kind() {
	case KindString:
		l, _ := lv.AsString()
		r, _ := rv.AsString()
		return l == r, nil
	case KindNumber:
		l, _ := lv.AsNumber()
		r, _ := rv.AsNumber()
		return l == r, nil
	case KindBool:
		l, _ := lv.AsBool()
		r, _ := rv.AsBool()
		return l == r, nil
	default:
		return false, ev.mismatch(c, lv.Kind(), rv.Kind())
	}
}

// operand resolves a condition operand, reporting whether it came from
// a stringly namespace.
func (ev *evaluator) operand(e *Expr, scopes []*Object) (Value, bool, error) {
	stringly := e.Kind == ExprEnv || e.Kind == ExprSys
	v, err := ev.expr(e, scopes)
	return v, stringly, err
}

// renderScalar stringifies a scalar for comparison against an env or
// sys operand.
func (ev *evaluator) renderScalar(v Value, c *Condition) (string, error) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindNumber:
		n, _ := v.AsNumber()
		return formatNumber(n), nil
	case KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b), nil
	default:
		return "", ErrTypeMismatch.
			Wrapf("cannot compare %s in a condition", v.Kind()).
			at(c.Line, 0, ev.lineText(c.Line))
	}
}

func (ev *evaluator) mismatch(c *Condition, l, r ValueKind) *Error {
	return ErrTypeMismatch.
		Wrapf("cannot compare %s with %s", l, r).
		at(c.Line, 0, ev.lineText(c.Line))
}
