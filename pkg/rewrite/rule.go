// Package rewrite applies ordered, whole-document textual rewrite rules that
// turn fixed call shapes into replacement call shapes.
//
// Rules never interpret captured text: replacements are composed in Go from
// the captured substrings, so "$" or backslashes inside the document or the
// replacement are copied as they are.
package rewrite

import (
	"strings"
)

// Kind classifies a rule by the shape of edit it performs.
type Kind string

const (
	// KindLiteral replaces an exact substring with an exact substring.
	KindLiteral Kind = "literal"
	// KindParameterized re-emits one captured sub-expression in a new call shape.
	KindParameterized Kind = "parameterized"
	// KindCompound turns "A; B(msg)" into a continuation "A.then(() => B'(msg))".
	KindCompound Kind = "compound"
	// KindControl rewrites a blocking boolean guard into an async sequence.
	KindControl Kind = "control"
)

// Rule is one rewrite step. Apply returns the new text and the number of
// replacements made; zero is a soft miss, not an error.
type Rule interface {
	Name() string
	Kind() Kind
	Apply(text string) (string, int, error)
}

// Literal is a fixed-literal rule.
type Literal struct {
	Label string
	Old   string
	New   string
}

// NewLiteral builds a fixed-literal rule.
func NewLiteral(label, old, replacement string) Literal {
	return Literal{Label: label, Old: old, New: replacement}
}

func (l Literal) Name() string { return l.Label }
func (l Literal) Kind() Kind   { return KindLiteral }

func (l Literal) Apply(text string) (string, int, error) {
	if l.Old == "" {
		return text, 0, nil
	}
	n := strings.Count(text, l.Old)
	if n == 0 {
		return text, 0, nil
	}
	return strings.ReplaceAll(text, l.Old, l.New), n, nil
}

// LineLiteral replaces Old with New only on lines containing Anchor.
type LineLiteral struct {
	Label  string
	Anchor string
	Old    string
	New    string
}

func (l LineLiteral) Name() string { return l.Label }
func (l LineLiteral) Kind() Kind   { return KindLiteral }

func (l LineLiteral) Apply(text string) (string, int, error) {
	if l.Anchor == "" || l.Old == "" || !strings.Contains(text, l.Anchor) {
		return text, 0, nil
	}
	lines := strings.SplitAfter(text, "\n")
	n := 0
	for i, line := range lines {
		if !strings.Contains(line, l.Anchor) {
			continue
		}
		if c := strings.Count(line, l.Old); c > 0 {
			lines[i] = strings.ReplaceAll(line, l.Old, l.New)
			n += c
		}
	}
	return strings.Join(lines, ""), n, nil
}
