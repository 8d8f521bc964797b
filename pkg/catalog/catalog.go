/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package catalog holds the fixed, hand-curated set of passes. Each pass
// binds one engine (insert, excise, rewrite or audit) to the literals and
// patterns it applies to the target document.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/excise"
	"github.com/fulmenhq/patchwork/pkg/insert"
	"github.com/fulmenhq/patchwork/pkg/rewrite"
)

// ErrUnknownPass is returned by Lookup for names outside the catalog.
var ErrUnknownPass = errors.New("unknown pass")

// Kind names the engine a pass runs.
type Kind string

const (
	KindInsert  Kind = "insert"
	KindExcise  Kind = "excise"
	KindRewrite Kind = "rewrite"
	KindAudit   Kind = "audit"
)

// Pass is one independently invocable utility.
type Pass struct {
	Name        string
	Kind        Kind
	Description string

	Insert  *insert.Inserter
	Excise  *excise.Engine
	Rewrite *rewrite.RuleSet
	Probes  []audit.Probe
}

// ReadOnly reports whether the pass never writes the document.
func (p Pass) ReadOnly() bool { return p.Kind == KindAudit }

var registry = map[string]Pass{}

func register(p Pass) {
	if _, dup := registry[p.Name]; dup {
		panic(fmt.Sprintf("catalog: pass %s registered twice", p.Name))
	}
	registry[p.Name] = p
}

// Lookup returns the pass called name.
func Lookup(name string) (Pass, error) {
	p, ok := registry[name]
	if !ok {
		return Pass{}, fmt.Errorf("%w: %s", ErrUnknownPass, name)
	}
	return p, nil
}

// All returns every pass sorted by kind then name.
func All() []Pass {
	out := make([]Pass, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return kindRank(out[i].Kind) < kindRank(out[j].Kind)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ByKind returns the passes of one kind.
func ByKind(k Kind) []Pass {
	var out []Pass
	for _, p := range All() {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

func kindRank(k Kind) int {
	switch k {
	case KindInsert:
		return 0
	case KindExcise:
		return 1
	case KindRewrite:
		return 2
	default:
		return 3
	}
}
