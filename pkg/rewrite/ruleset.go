package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrRuleOrder is returned when a composite rule is scheduled after the
	// generic rule that would consume its original text.
	ErrRuleOrder = errors.New("rule order violation")
	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")
)

// Order requires rule First to run before rule Then.
type Order struct {
	First string
	Then  string
}

// RuleSet is an ordered list of rules; each rule sees the previous rule's output.
type RuleSet struct {
	rules  []Rule
	orders []Order
}

// NewRuleSet validates names and ordering constraints.
func NewRuleSet(rules []Rule, orders ...Order) (*RuleSet, error) {
	pos := make(map[string]int, len(rules))
	for i, r := range rules {
		if _, dup := pos[r.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.Name())
		}
		pos[r.Name()] = i
	}
	for _, o := range orders {
		fi, ok1 := pos[o.First]
		ti, ok2 := pos[o.Then]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: constraint %s -> %s names an unknown rule", ErrRuleOrder, o.First, o.Then)
		}
		if fi > ti {
			return nil, fmt.Errorf("%w: %s must run before %s", ErrRuleOrder, o.First, o.Then)
		}
	}
	return &RuleSet{rules: rules, orders: orders}, nil
}

// MustRuleSet is NewRuleSet that panics on an invalid set.
func MustRuleSet(rules []Rule, orders ...Order) *RuleSet {
	rs, err := NewRuleSet(rules, orders...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Rules returns the rules in application order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Orders returns the ordering constraints.
func (rs *RuleSet) Orders() []Order {
	out := make([]Order, len(rs.orders))
	copy(out, rs.orders)
	return out
}

// Result is the outcome of one rule.
type Result struct {
	Rule  string `json:"rule" yaml:"rule"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Count int    `json:"count" yaml:"count"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Found reports whether the rule matched at least once.
func (r Result) Found() bool { return r.Count > 0 }

// Report collects per-rule results in application order.
type Report struct {
	Results []Result `json:"results" yaml:"results"`
}

// Total is the number of replacements across all rules.
func (r Report) Total() int {
	n := 0
	for _, res := range r.Results {
		n += res.Count
	}
	return n
}

// Lookup returns the result for a rule name.
func (r Report) Lookup(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Rule == name {
			return res, true
		}
	}
	return Result{}, false
}

// Failed returns results that carry an error.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Error != "" {
			out = append(out, res)
		}
	}
	return out
}

// Apply runs every rule in order. A failing rule leaves the text as it was
// and the remaining rules still run.
func (rs *RuleSet) Apply(text string) (string, Report) {
	var rep Report
	for _, r := range rs.rules {
		out, n, err := r.Apply(text)
		res := Result{Rule: r.Name(), Kind: r.Kind(), Count: n}
		if err != nil {
			res.Error = err.Error()
			res.Count = 0
		} else {
			text = out
		}
		rep.Results = append(rep.Results, res)
	}
	return text, rep
}
