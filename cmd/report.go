package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/catalog"
)

// printOutcome writes the console confirmation lines for one pass.
func printOutcome(w io.Writer, p catalog.Pass, out catalog.Outcome) {
	switch {
	case out.Insert != nil:
		name := p.Insert.Name
		for _, in := range out.Insert.Inserted {
			fmt.Fprintf(w, "Added %s to %s\n", name, in.Region)
		}
		for _, in := range out.Insert.Skipped {
			fmt.Fprintf(w, "%s already present in %s\n", name, in.Region)
		}
		if len(out.Insert.Inserted)+len(out.Insert.Skipped) == 0 {
			fmt.Fprintln(w, "No insertion point found")
		}
	case out.Excise != nil:
		for _, s := range out.Excise.Spans {
			fmt.Fprintf(w, "Removed %s (lines %d-%d)\n", s.Rule, s.Start, s.End)
		}
		for _, d := range out.Excise.Dropped {
			fmt.Fprintf(w, "Removed %s (line %d)\n", d.Rule, d.Line)
		}
		if out.Excise.Consumed == 0 {
			fmt.Fprintln(w, "Nothing to remove")
		}
	case out.Rewrite != nil:
		for _, r := range out.Rewrite.Results {
			switch {
			case r.Error != "":
				fmt.Fprintf(w, "%s failed: %s\n", r.Rule, r.Error)
			case r.Found():
				fmt.Fprintf(w, "Replaced %s (%d)\n", r.Rule, r.Count)
			default:
				fmt.Fprintf(w, "%s not found\n", r.Rule)
			}
		}
	case out.Audit != nil:
		printAudit(w, *out.Audit)
	}
}

func printAudit(w io.Writer, rep audit.Report) {
	if rep.Source != "" {
		fmt.Fprintf(w, "%s\n", rep.Source)
	}
	for _, f := range rep.Findings {
		fmt.Fprintf(w, "%s: %d\n", f.Probe, f.Count)
		for _, s := range f.Samples {
			fmt.Fprintf(w, "  - %d: %s\n", s.Line, s.Text)
		}
	}
}
