// Package excise drops delimited blocks and single lines from a document.
//
// A block starts on a line matching one of a rule's start markers and ends
// on the first later line matching the rule's terminator. Both lines and
// everything between them are dropped. Only one block is open at a time and
// start markers seen while a block is open are ignored. A terminator that
// legitimately occurs inside the block ends it early; nothing detects that.
package excise

import (
	"strings"

	"github.com/fulmenhq/patchwork/pkg/document"
)

// Matcher is a literal line test. With Exact set the trimmed line must equal
// Exact; otherwise every entry in All must be contained in the line.
type Matcher struct {
	All   []string
	Exact string
}

// Contains matches lines holding every one of subs.
func Contains(subs ...string) Matcher { return Matcher{All: subs} }

// Line matches lines whose trimmed text equals s.
func Line(s string) Matcher { return Matcher{Exact: s} }

// Match reports whether line satisfies m. An empty matcher matches nothing.
func (m Matcher) Match(line string) bool {
	if m.Exact != "" {
		return strings.TrimSpace(line) == m.Exact
	}
	if len(m.All) == 0 {
		return false
	}
	for _, s := range m.All {
		if !strings.Contains(line, s) {
			return false
		}
	}
	return true
}

// BlockRule is a family of start markers sharing one terminator.
type BlockRule struct {
	Name       string
	Starts     []Matcher
	Terminator Matcher
}

func (r BlockRule) starts(line string) bool {
	for _, m := range r.Starts {
		if m.Match(line) {
			return true
		}
	}
	return false
}

// LineRule drops single lines outside any open block.
type LineRule struct {
	Name  string
	Match Matcher
}

// Span is one dropped block, 1-based and inclusive.
type Span struct {
	Rule       string `json:"rule" yaml:"rule"`
	Start      int    `json:"start" yaml:"start"`
	End        int    `json:"end" yaml:"end"`
	Terminated bool   `json:"terminated" yaml:"terminated"`
}

// Len is the number of lines in the span.
func (s Span) Len() int { return s.End - s.Start + 1 }

// LineDrop is one line removed by a LineRule.
type LineDrop struct {
	Rule string `json:"rule" yaml:"rule"`
	Line int    `json:"line" yaml:"line"`
}

// Result summarizes one Apply. Consumed equals the number of lines removed.
type Result struct {
	Spans    []Span     `json:"spans" yaml:"spans"`
	Dropped  []LineDrop `json:"dropped" yaml:"dropped"`
	Consumed int        `json:"consumed" yaml:"consumed"`
}

// Unterminated returns spans that ran to the end of the document.
func (r Result) Unterminated() []Span {
	var out []Span
	for _, s := range r.Spans {
		if !s.Terminated {
			out = append(out, s)
		}
	}
	return out
}

// Engine applies block rules first, in order, then line rules.
type Engine struct {
	Blocks []BlockRule
	Lines  []LineRule
}

// Apply returns the surviving lines.
func (e Engine) Apply(lines []string) ([]string, Result) {
	var (
		res    Result
		out    = make([]string, 0, len(lines))
		active *BlockRule
		span   Span
	)

	for i, line := range lines {
		n := i + 1

		if active == nil {
			for bi := range e.Blocks {
				if e.Blocks[bi].starts(line) {
					active = &e.Blocks[bi]
					span = Span{Rule: active.Name, Start: n}
					break
				}
			}
		}

		if active != nil {
			res.Consumed++
			if active.Terminator.Match(line) {
				span.End = n
				span.Terminated = true
				res.Spans = append(res.Spans, span)
				active = nil
			}
			continue
		}

		if rule, ok := e.dropLine(line); ok {
			res.Dropped = append(res.Dropped, LineDrop{Rule: rule, Line: n})
			res.Consumed++
			continue
		}

		out = append(out, line)
	}

	if active != nil {
		span.End = len(lines)
		res.Spans = append(res.Spans, span)
	}
	return out, res
}

// ApplyDocument runs Apply over doc and stores the result.
func (e Engine) ApplyDocument(doc *document.Document) Result {
	out, res := e.Apply(doc.Lines())
	if res.Consumed > 0 {
		doc.SetLines(out)
	}
	return res
}

func (e Engine) dropLine(line string) (string, bool) {
	for _, r := range e.Lines {
		if r.Match.Match(line) {
			return r.Name, true
		}
	}
	return "", false
}
