package lang

import (
	"log/slog"
	"regexp"
)

// Pattern is a compiled regex literal. The source text is retained for
// serialization and diagnostics.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Source returns the original pattern text, exactly as written between
// the quotes of the raw string literal.
func (p *Pattern) Source() string { return p.source }

// Matches reports whether the pattern matches anywhere in candidate.
// Matching is unanchored; anchor explicitly with ^ and $ when the whole
// candidate must match.
func (p *Pattern) Matches(candidate string) bool {
	return p.re.MatchString(candidate)
}

// String returns the pattern source.
func (p *Pattern) String() string { return p.source }

// patternCache memoizes compiled patterns by their exact source text
// for the lifetime of one resolution session. Identical literals across
// a document and its imports share one compiled Pattern.
type patternCache struct {
	byText map[string]*Pattern
}

func newPatternCache() *patternCache {
	return &patternCache{byText: make(map[string]*Pattern)}
}

// compile returns the memoized Pattern for source, compiling on first
// use. A compile failure reports the pattern text, the source line it
// appears on, and the regex engine's diagnostic.
func (c *patternCache) compile(source string, line, column int, lineText string) (*Pattern, error) {
	if p, ok := c.byText[source]; ok {
		return p, nil
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, ErrPattern.Wrap(err).
			With(slog.String("pattern", source)).
			at(line, column, lineText)
	}
	p := &Pattern{source: source, re: re}
	c.byText[source] = p
	return p, nil
}
