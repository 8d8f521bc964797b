package rewrite

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Call rewrites a call whose argument list may itself contain calls, brackets,
// string literals or template literals. The lead expression must end with the
// call's opening paren; the arguments run to the matching closing paren.
//
// The Builder receives the whole rewritten text as groups[0], the lead's own
// groups next and the raw argument text last. A call whose arguments never
// close, or that is not followed by Tail, is left untouched.
type Call struct {
	label  string
	kind   Kind
	lead   *regexp2.Regexp
	tail   []rune
	accept func(args string) bool
	build  Builder
}

// CallOption adjusts a Call rule.
type CallOption func(*Call)

// WithTail requires tail to follow the closing paren; it is consumed with
// the call.
func WithTail(tail string) CallOption {
	return func(c *Call) { c.tail = []rune(tail) }
}

// WithArgs restricts the rule to argument lists accepted by fn.
func WithArgs(fn func(args string) bool) CallOption {
	return func(c *Call) { c.accept = fn }
}

// NewCall compiles lead with the backtracking engine so it may guard the
// call name with lookbehind.
func NewCall(label string, kind Kind, lead string, build Builder, opts ...CallOption) (*Call, error) {
	if !strings.HasSuffix(lead, `\(`) {
		return nil, fmt.Errorf("rule %s: lead must end with an opening paren", label)
	}
	re, err := regexp2.Compile(lead, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", label, err)
	}
	re.MatchTimeout = matchTimeout
	c := &Call{label: label, kind: kind, lead: re, build: build}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustCall is NewCall that panics on a bad lead.
func MustCall(label string, kind Kind, lead string, build Builder, opts ...CallOption) *Call {
	c, err := NewCall(label, kind, lead, build, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Call) Name() string { return c.label }
func (c *Call) Kind() Kind   { return c.kind }

// Expr returns the lead expression.
func (c *Call) Expr() string { return c.lead.String() }

func (c *Call) Apply(text string) (string, int, error) {
	src := []rune(text)
	var b strings.Builder
	last, n := 0, 0

	m, err := c.lead.FindRunesMatch(src)
	for m != nil {
		open := m.Index + m.Length
		next := open
		if stop, args, ok := c.call(src, open); ok {
			b.WriteString(string(src[last:m.Index]))
			b.WriteString(c.build(c.groups(m, src[m.Index:stop], args)))
			last, next = stop, stop
			n++
		}
		m, err = c.lead.FindRunesMatchStartingAt(src, next)
	}
	if err != nil {
		return text, 0, fmt.Errorf("rule %s: %w", c.label, err)
	}
	if n == 0 {
		return text, 0, nil
	}
	b.WriteString(string(src[last:]))
	return b.String(), n, nil
}

// call reads the arguments opened just before open and the required tail.
func (c *Call) call(src []rune, open int) (stop int, args string, ok bool) {
	end, ok := closing(src, open, ')')
	if !ok {
		return 0, "", false
	}
	stop, ok = c.after(src, end+1)
	if !ok {
		return 0, "", false
	}
	args = string(src[open:end])
	if c.accept != nil && !c.accept(args) {
		return 0, "", false
	}
	return stop, args, true
}

func (c *Call) groups(m *regexp2.Match, whole []rune, args string) []string {
	gs := m.Groups()
	groups := make([]string, 0, len(gs)+1)
	groups = append(groups, string(whole))
	for _, g := range gs[1:] {
		s := ""
		if len(g.Captures) > 0 {
			s = g.String()
		}
		groups = append(groups, s)
	}
	return append(groups, args)
}

func (c *Call) after(src []rune, at int) (int, bool) {
	if len(c.tail) == 0 {
		return at, true
	}
	if at+len(c.tail) > len(src) || string(src[at:at+len(c.tail)]) != string(c.tail) {
		return 0, false
	}
	return at + len(c.tail), true
}

// SplitArgs splits argument text on its top-level commas and trims each
// part. Text with unbalanced punctuation comes back as a single part.
func SplitArgs(args string) []string {
	src := []rune(args)
	var parts []string
	start := 0
	for i := 0; i < len(src); i++ {
		var (
			end int
			ok  = true
		)
		switch r := src[i]; r {
		case '\\':
			i++
			continue
		case '\'', '"':
			end, ok = skipQuoted(src, i+1, r)
		case '`':
			end, ok = skipTemplate(src, i+1)
		case '(':
			end, ok = closing(src, i+1, ')')
		case '[':
			end, ok = closing(src, i+1, ']')
		case '{':
			end, ok = closing(src, i+1, '}')
		case ',':
			parts = append(parts, strings.TrimSpace(string(src[start:i])))
			start = i + 1
			continue
		default:
			continue
		}
		if !ok {
			return []string{strings.TrimSpace(args)}
		}
		i = end
	}
	return append(parts, strings.TrimSpace(string(src[start:])))
}

// closing returns the index of the rune that closes a group opened just
// before start. Brackets must nest; string and template literals are skipped.
func closing(src []rune, start int, closer rune) (int, bool) {
	want := []rune{closer}
	for i := start; i < len(src); i++ {
		var ok bool
		switch r := src[i]; r {
		case '\\':
			i++
			continue
		case '\'', '"':
			if i, ok = skipQuoted(src, i+1, r); !ok {
				return 0, false
			}
		case '`':
			if i, ok = skipTemplate(src, i+1); !ok {
				return 0, false
			}
		case '(':
			want = append(want, ')')
		case '[':
			want = append(want, ']')
		case '{':
			want = append(want, '}')
		case ')', ']', '}':
			if r != want[len(want)-1] {
				return 0, false
			}
			want = want[:len(want)-1]
			if len(want) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// skipQuoted returns the index of the quote ending a string literal. Such
// literals cannot span lines.
func skipQuoted(src []rune, i int, quote rune) (int, bool) {
	for ; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

// skipTemplate returns the index of the backtick ending a template literal,
// stepping over ${...} substitutions.
func skipTemplate(src []rune, i int) (int, bool) {
	for ; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			return i, true
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				end, ok := closing(src, i+2, '}')
				if !ok {
					return 0, false
				}
				i = end
			}
		}
	}
	return 0, false
}
