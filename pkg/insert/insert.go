// Package insert adds a block of lines once per tracked region, in front of
// a target line, and skips regions that already carry it.
package insert

import (
	"strings"

	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/scan"
)

// DefaultLookback is the number of emitted lines searched for a prior insertion.
const DefaultLookback = 5

// Inserter describes one idempotent insertion.
type Inserter struct {
	// Name labels the inserted content in reports.
	Name        string
	Regions     []scan.RegionRule
	ResetMarker string
	// Target is the substring identifying the line to insert before.
	Target string
	// Marker is the substring proving a previous insertion.
	Marker string
	// Content lines, without terminators.
	Content  []string
	Lookback int
}

// Insertion records where content was (or would have been) placed.
type Insertion struct {
	Region string `json:"region" yaml:"region"`
	Line   int    `json:"line" yaml:"line"`
}

// Result summarizes one Apply.
type Result struct {
	Inserted []Insertion `json:"inserted" yaml:"inserted"`
	Skipped  []Insertion `json:"skipped" yaml:"skipped"`
}

// Apply returns lines with content inserted. Line numbers in the result are
// 1-based positions in the input. le is the line ending for new lines.
func (in Inserter) Apply(lines []string, le string) ([]string, Result) {
	var res Result
	if in.Target == "" {
		return lines, res
	}
	window := in.Lookback
	if window <= 0 {
		window = DefaultLookback
	}
	if le == "" {
		le = "\n"
	}

	tr := scan.NewTracker(in.Regions, in.ResetMarker)
	out := make([]string, 0, len(lines)+len(in.Content))

	for i, line := range lines {
		region := tr.Step(line)
		if region == "" || !strings.Contains(line, in.Target) {
			out = append(out, line)
			continue
		}

		at := Insertion{Region: region, Line: i + 1}
		if in.Marker != "" && seen(out, in.Marker, window) {
			res.Skipped = append(res.Skipped, at)
			out = append(out, line)
			continue
		}

		for _, c := range in.Content {
			out = append(out, c+le)
		}
		out = append(out, line)
		res.Inserted = append(res.Inserted, at)
		tr.Clear()
	}
	return out, res
}

// ApplyDocument runs Apply over doc and stores the result.
func (in Inserter) ApplyDocument(doc *document.Document) Result {
	out, res := in.Apply(doc.Lines(), doc.LineEnding)
	if len(res.Inserted) > 0 {
		doc.SetLines(out)
	}
	return res
}

func seen(emitted []string, marker string, window int) bool {
	start := len(emitted) - window
	if start < 0 {
		start = 0
	}
	for _, l := range emitted[start:] {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}
