package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/fulmenhq/patchwork/pkg/config"
	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to run a fresh root with args and capture stdout/stderr
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	registerSubcommands(root)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	// Reduce log noise to capture clean command output
	root.SetArgs(append([]string{"--log-level", "error", "--no-color"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.tsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"missing input", fmt.Errorf("load: %w", document.ErrUnreadable), exitcode.FileSystemError},
		{"traversal", document.ErrPathTraversal, exitcode.FileSystemError},
		{"binary input", document.ErrNotText, exitcode.UnsupportedFormat},
		{"bad config", fmt.Errorf("x: %w", config.ErrInvalid), exitcode.ConfigError},
		{"explicit", exitcode.Wrap(exitcode.PermissionError, errors.New("denied")), exitcode.PermissionError},
		{"unknown pass", catalog.ErrUnknownPass, exitcode.GeneralError},
		{"other", errors.New("boom"), exitcode.GeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestRoot_Help(t *testing.T) {
	out, err := execRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Edit Commands:")
	assert.Contains(t, out, "Audit Commands:")
	assert.Contains(t, out, "Support Commands:")
	for _, name := range []string{"run", "passes", "audit", "version"} {
		assert.Contains(t, out, "  "+name)
	}
}

func TestRoot_VersionFlag(t *testing.T) {
	out, err := execRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "patchwork dev\n", out)
}

func TestRoot_CommandsRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		assert.NotEmpty(t, c.Annotations[groupAnnotation], c.Name())
	}
}
