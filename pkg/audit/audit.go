// Package audit counts remaining deprecated call shapes in a document. It
// never modifies its input.
package audit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Probe is one call shape to count.
type Probe struct {
	Name string
	Expr *regexp.Regexp
	// Group selects the submatch shown in samples; 0 shows the whole match.
	Group int
}

// NewProbe compiles expr into a probe.
func NewProbe(name, expr string, group int) (Probe, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Probe{}, fmt.Errorf("probe %s: %w", name, err)
	}
	if group < 0 || group > re.NumSubexp() {
		return Probe{}, fmt.Errorf("probe %s: group %d out of range", name, group)
	}
	return Probe{Name: name, Expr: re, Group: group}, nil
}

// MustProbe is NewProbe that panics on error.
func MustProbe(name, expr string, group int) Probe {
	p, err := NewProbe(name, expr, group)
	if err != nil {
		panic(err)
	}
	return p
}

// Sample is one occurrence shown to the reviewer.
type Sample struct {
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// Finding is the tally for one probe.
type Finding struct {
	Probe   string   `json:"probe" yaml:"probe"`
	Count   int      `json:"count" yaml:"count"`
	Samples []Sample `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Report is the result of one audit over one document.
type Report struct {
	Source   string    `json:"source,omitempty" yaml:"source,omitempty"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Total sums the counts of every probe.
func (r Report) Total() int {
	n := 0
	for _, f := range r.Findings {
		n += f.Count
	}
	return n
}

// Count returns the count for a probe name.
func (r Report) Count(probe string) int {
	for _, f := range r.Findings {
		if f.Probe == probe {
			return f.Count
		}
	}
	return 0
}

// Options bounds the samples kept per probe.
type Options struct {
	// Samples is the number of occurrences kept per probe; negative keeps all.
	Samples int
	// Width truncates sample text to this display width; 0 disables.
	Width int
}

// Run counts every probe over text.
func Run(text string, probes []Probe, opts Options) Report {
	var rep Report
	for _, p := range probes {
		locs := p.Expr.FindAllStringSubmatchIndex(text, -1)
		f := Finding{Probe: p.Name, Count: len(locs)}
		for _, loc := range locs {
			if opts.Samples >= 0 && len(f.Samples) >= opts.Samples {
				break
			}
			start, end := loc[2*p.Group], loc[2*p.Group+1]
			if start < 0 {
				start, end = loc[0], loc[1]
			}
			f.Samples = append(f.Samples, Sample{
				Line: strings.Count(text[:loc[0]], "\n") + 1,
				Text: truncate(text[start:end], opts.Width),
			})
		}
		rep.Findings = append(rep.Findings, f)
	}
	return rep
}

// truncate shortens s to width display cells, measuring East Asian wide
// characters as two cells.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
