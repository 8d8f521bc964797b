// Package scan walks a document line by line tracking a single active
// region. Regions are recognized by literal substrings, never by syntax.
package scan

import "strings"

// RegionRule names a tracked region and the literal that opens it.
type RegionRule struct {
	Tag    string
	Marker string
}

// TaggedLine is a source line with the region active after it was read.
type TaggedLine struct {
	Index  int
	Text   string
	Region string
}

// Tracker holds at most one active region. It is not reentrant: a second
// marker of a tracked region replaces the current tag rather than nesting.
type Tracker struct {
	rules []RegionRule
	// reset is the marker shared by every region of the class; a line that
	// carries it but no tracked marker leaves the tracked region.
	reset  string
	active string
}

// NewTracker builds a tracker for rules. reset may be empty, in which case
// regions are only closed by Clear.
func NewTracker(rules []RegionRule, reset string) *Tracker {
	return &Tracker{rules: rules, reset: reset}
}

// Step feeds one line and returns the active tag after it.
func (t *Tracker) Step(line string) string {
	for _, r := range t.rules {
		if r.Marker != "" && strings.Contains(line, r.Marker) {
			t.active = r.Tag
			return t.active
		}
	}
	if t.reset != "" && strings.Contains(line, t.reset) {
		t.active = ""
	}
	return t.active
}

// Active returns the current tag, "" when outside every tracked region.
func (t *Tracker) Active() string {
	return t.active
}

// Clear closes the active region.
func (t *Tracker) Clear() {
	t.active = ""
}

// Scan tags every line. An unclosed region stays active to the end.
func Scan(lines []string, rules []RegionRule, reset string) []TaggedLine {
	tr := NewTracker(rules, reset)
	out := make([]TaggedLine, 0, len(lines))
	for i, line := range lines {
		out = append(out, TaggedLine{Index: i, Text: line, Region: tr.Step(line)})
	}
	return out
}
