package catalog

import (
	"fmt"

	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/excise"
	"github.com/fulmenhq/patchwork/pkg/insert"
	"github.com/fulmenhq/patchwork/pkg/rewrite"
)

// Options tunes a pass without changing what it edits.
type Options struct {
	// Lookback overrides the inserter window when positive.
	Lookback int
	Audit    audit.Options
}

// Outcome is what one pass did to a document. Exactly one engine result is set.
type Outcome struct {
	Pass    string          `json:"pass" yaml:"pass"`
	Kind    Kind            `json:"kind" yaml:"kind"`
	Path    string          `json:"path" yaml:"path"`
	Changed bool            `json:"changed" yaml:"changed"`
	Insert  *insert.Result  `json:"insert,omitempty" yaml:"insert,omitempty"`
	Excise  *excise.Result  `json:"excise,omitempty" yaml:"excise,omitempty"`
	Rewrite *rewrite.Report `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
	Audit   *audit.Report   `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// Execute applies p to doc in memory. Saving is left to the caller.
func Execute(doc *document.Document, p Pass, opts Options) (Outcome, error) {
	out := Outcome{Pass: p.Name, Kind: p.Kind, Path: doc.Path}

	switch p.Kind {
	case KindInsert:
		if p.Insert == nil {
			return out, fmt.Errorf("pass %s: no inserter", p.Name)
		}
		in := *p.Insert
		if opts.Lookback > 0 {
			in.Lookback = opts.Lookback
		}
		res := in.ApplyDocument(doc)
		out.Insert = &res
	case KindExcise:
		if p.Excise == nil {
			return out, fmt.Errorf("pass %s: no excise engine", p.Name)
		}
		res := p.Excise.ApplyDocument(doc)
		out.Excise = &res
	case KindRewrite:
		if p.Rewrite == nil {
			return out, fmt.Errorf("pass %s: no rule set", p.Name)
		}
		text, rep := p.Rewrite.Apply(doc.Text)
		doc.Replace(text)
		out.Rewrite = &rep
	case KindAudit:
		rep := audit.Run(doc.Text, p.Probes, opts.Audit)
		rep.Source = doc.Path
		out.Audit = &rep
	default:
		return out, fmt.Errorf("pass %s: unsupported kind %q", p.Name, p.Kind)
	}

	out.Changed = doc.Changed()
	return out, nil
}
