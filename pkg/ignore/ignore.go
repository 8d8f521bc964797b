// Package ignore filters audit targets with gitignore semantics using go-git
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the repo-level override file read next to .gitignore.
const FileName = ".patchworkignore"

// defaultPatterns are always ignored; they hold vendored or generated copies
// of the document, never the source of truth.
var defaultPatterns = []string{".git/", "node_modules/", ".wrangler/"}

// Matcher provides gitignore-based file filtering relative to a root
type Matcher struct {
	root    string
	matcher gitignore.Matcher
}

// NewMatcher creates a matcher with layered ignore files:
// 1. built-in defaults
// 2. .gitignore and .git/info/exclude under root
// 3. .patchworkignore at root (later patterns win, so it can re-include)
func NewMatcher(root string) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve ignore root: %w", err)
	}

	var patterns []gitignore.Pattern
	for _, p := range defaultPatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	if gitPatterns, err := gitignore.ReadPatterns(osfs.New(abs), nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}
	lines, err := readIgnoreFile(filepath.Join(abs, FileName))
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return &Matcher{root: abs, matcher: gitignore.NewMatcher(patterns)}, nil
}

// readIgnoreFile reads patterns from a text file, skipping blanks and comments
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- fixed file name under the matcher root
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsIgnored checks if a file path should be ignored
func (m *Matcher) IsIgnored(path string) bool {
	parts := m.parts(path)
	return len(parts) > 0 && m.matcher.Match(parts, false)
}

// Filter returns paths that are not ignored, keeping their order.
func (m *Matcher) Filter(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		if !m.IsIgnored(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Matcher) parts(path string) []string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		rel = path
	}
	return splitPath(filepath.ToSlash(rel))
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
