/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package document loads and persists the single source document a pass
// operates on. The document is read once at the start of an invocation and
// written at most once at the end.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnreadable marks input absence: the target could not be read.
	ErrUnreadable = errors.New("document unreadable")
	// ErrNotText marks content that is not processable text.
	ErrNotText = errors.New("document is not text")
	// ErrPathTraversal is returned for paths escaping upward with "..".
	ErrPathTraversal = errors.New("path traversal detected")
)

// Document is the in-memory copy of the target file.
type Document struct {
	Path       string
	Text       string
	LineEnding string
	Mode       os.FileMode

	original string
}

// Load reads the whole file at path.
func Load(path string) (*Document, error) {
	clean, err := CleanUserPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	// #nosec G304 -- path cleaned and traversal rejected above
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if !IsProcessableText(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, clean)
	}

	mode := os.FileMode(0o644)
	if st, err := os.Stat(clean); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	text := string(data)
	return &Document{
		Path:       clean,
		Text:       text,
		LineEnding: DetectLineEnding(text),
		Mode:       mode,
		original:   text,
	}, nil
}

// FromString builds a document that was never on disk. Save writes it to path.
func FromString(path, text string) *Document {
	return &Document{
		Path:       path,
		Text:       text,
		LineEnding: DetectLineEnding(text),
		Mode:       0o644,
		original:   text,
	}
}

// Lines splits the text into lines that keep their terminators.
func (d *Document) Lines() []string {
	return SplitLines(d.Text)
}

// SetLines replaces the text with the concatenation of lines.
func (d *Document) SetLines(lines []string) bool {
	return d.Replace(strings.Join(lines, ""))
}

// Replace swaps the in-memory text and reports whether it differs.
func (d *Document) Replace(text string) bool {
	changed := text != d.Text
	d.Text = text
	return changed
}

// Changed reports whether the text differs from what was loaded.
func (d *Document) Changed() bool {
	return d.Text != d.original
}

// Original returns the text as loaded.
func (d *Document) Original() string {
	return d.original
}

// Save writes the whole text back, keeping the file mode. No backup is made.
func (d *Document) Save() error {
	if err := os.WriteFile(d.Path, []byte(d.Text), d.Mode); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	d.original = d.Text
	return nil
}

// SplitLines splits text after every "\n". The last element has no
// terminator when text does not end with a newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Terminate gives line the ending le unless it already has one.
func Terminate(line, le string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + le
}

// Bare strips the line terminator.
func Bare(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// DetectLineEnding detects the primary line ending style used in the content
func DetectLineEnding(content string) string {
	lfCount := strings.Count(content, "\n") - strings.Count(content, "\r\n")
	crlfCount := strings.Count(content, "\r\n")
	if crlfCount > lfCount {
		return "\r\n"
	}
	return "\n"
}

// IsProcessableText rejects NUL-heavy or invalid UTF-8 content.
func IsProcessableText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	if nul := bytes.Count(content, []byte{0}); nul > len(content)/10 {
		return false
	}
	return utf8.Valid(bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
}

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(c), "/") {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}
	return c, nil
}
