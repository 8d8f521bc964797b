package rewrite

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Builder composes a replacement from the captured groups. groups[0] is the
// whole match; unmatched optional groups are "".
type Builder func(groups []string) string

// matchTimeout bounds backtracking patterns so a pass always terminates.
const matchTimeout = 5 * time.Second

type matcher interface {
	replace(text string, build Builder) (string, int, error)
	String() string
}

// Pattern is a regular-expression rule whose replacement is built in Go.
type Pattern struct {
	label string
	kind  Kind
	m     matcher
	build Builder
}

// NewPattern compiles expr with the RE2 engine.
func NewPattern(label string, kind Kind, expr string, build Builder) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", label, err)
	}
	return &Pattern{label: label, kind: kind, m: re2Matcher{re}, build: build}, nil
}

// NewBacktrackPattern compiles expr with a backtracking engine. Use it only
// when the pattern needs lookaround, which RE2 does not support.
func NewBacktrackPattern(label string, kind Kind, expr string, build Builder) (*Pattern, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", label, err)
	}
	re.MatchTimeout = matchTimeout
	return &Pattern{label: label, kind: kind, m: backtrackMatcher{re}, build: build}, nil
}

// MustPattern is NewPattern that panics on a bad expression.
func MustPattern(label string, kind Kind, expr string, build Builder) *Pattern {
	p, err := NewPattern(label, kind, expr, build)
	if err != nil {
		panic(err)
	}
	return p
}

// MustBacktrackPattern is NewBacktrackPattern that panics on a bad expression.
func MustBacktrackPattern(label string, kind Kind, expr string, build Builder) *Pattern {
	p, err := NewBacktrackPattern(label, kind, expr, build)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) Name() string { return p.label }
func (p *Pattern) Kind() Kind   { return p.kind }

// Expr returns the source expression.
func (p *Pattern) Expr() string { return p.m.String() }

func (p *Pattern) Apply(text string) (string, int, error) {
	out, n, err := p.m.replace(text, p.build)
	if err != nil {
		return text, 0, fmt.Errorf("rule %s: %w", p.label, err)
	}
	return out, n, nil
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m re2Matcher) String() string { return m.re.String() }

func (m re2Matcher) replace(text string, build Builder) (string, int, error) {
	locs := m.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, 0, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(build(groups))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), len(locs), nil
}

type backtrackMatcher struct {
	re *regexp2.Regexp
}

func (m backtrackMatcher) String() string { return m.re.String() }

func (m backtrackMatcher) replace(text string, build Builder) (string, int, error) {
	n := 0
	out, err := m.re.ReplaceFunc(text, func(match regexp2.Match) string {
		n++
		gs := match.Groups()
		groups := make([]string, len(gs))
		for i := range gs {
			if len(gs[i].Captures) > 0 {
				groups[i] = gs[i].String()
			}
		}
		return build(groups)
	}, -1, -1)
	if err != nil {
		return text, 0, err
	}
	return out, n, nil
}
