// Package preview renders a line diff between the loaded document and the
// edited one, so a pass can be reviewed before (or instead of) writing it.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Op is the kind of one diff line.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

func (o Op) prefix() string {
	switch o {
	case OpInsert:
		return "+"
	case OpDelete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a hunk, without its terminator.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is the full comparison of two texts.
type Diff struct {
	Path  string
	Hunks []Hunk
}

// Empty reports whether the texts were identical.
func (d Diff) Empty() bool { return len(d.Hunks) == 0 }

// Stats counts added and removed lines.
func (d Diff) Stats() (added, removed int) {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Op {
			case OpInsert:
				added++
			case OpDelete:
				removed++
			}
		}
	}
	return added, removed
}

type op struct {
	Line
	oldLine, newLine int
}

// Compute diffs before and after line by line.
func Compute(path, before, after string, context int) Diff {
	d := Diff{Path: path}
	if before == after {
		return d
	}
	if context < 0 {
		context = DefaultContext
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	d.Hunks = group(operations(diffs), context)
	return d
}

func operations(diffs []diffmatchpatch.Diff) []op {
	var (
		ops              []op
		oldLine, newLine = 1, 1
	)
	for _, df := range diffs {
		text := strings.TrimSuffix(df.Text, "\n")
		if df.Text == "" {
			continue
		}
		for _, l := range strings.Split(text, "\n") {
			l = strings.TrimSuffix(l, "\r")
			switch df.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, op{Line{OpEqual, l}, oldLine, newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, op{Line{OpDelete, l}, oldLine, newLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, op{Line{OpInsert, l}, oldLine, newLine})
				newLine++
			}
		}
	}
	return ops
}

func group(ops []op, context int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if ops[i].Op == OpEqual {
			i++
			continue
		}

		start := i - context
		if start < 0 {
			start = 0
		}
		// Extend while the next change is within two context windows.
		end := i
		for j := i; j < len(ops); j++ {
			if ops[j].Op != OpEqual {
				end = j
				continue
			}
			if j-end > 2*context {
				break
			}
		}
		stop := end + context + 1
		if stop > len(ops) {
			stop = len(ops)
		}

		h := Hunk{OldStart: ops[start].oldLine, NewStart: ops[start].newLine}
		for _, o := range ops[start:stop] {
			h.Lines = append(h.Lines, o.Line)
			if o.Op != OpInsert {
				h.OldCount++
			}
			if o.Op != OpDelete {
				h.NewCount++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

// Write prints d in unified format.
func Write(w io.Writer, d Diff) error {
	if d.Empty() {
		return nil
	}
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", d.Path, d.Path); err != nil {
		return err
	}
	for _, h := range d.Hunks {
		if _, err := fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount); err != nil {
			return err
		}
		for _, l := range h.Lines {
			if _, err := fmt.Fprintf(w, "%s%s\n", l.Op.prefix(), l.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders d in unified format.
func (d Diff) String() string {
	var sb strings.Builder
	_ = Write(&sb, d)
	return sb.String()
}
