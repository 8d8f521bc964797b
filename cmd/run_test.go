package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/fulmenhq/patchwork/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReplacesAndIsIdempotent(t *testing.T) {
	path := writeDoc(t, "alert('Deleted');\n")

	out, err := execRoot(t, "run", "replace-alerts-v2", "--file", path)
	require.NoError(t, err, out)
	assert.Equal(t, "Swal.fire({ icon: 'info', text: 'Deleted' });\n", readDoc(t, path))
	assert.Contains(t, out, "Replaced "+catalog.RuleGenericAlert+" (1)")
	assert.Contains(t, out, catalog.RuleConfirmGuard+" not found")
	assert.True(t, strings.HasSuffix(out, "Done.\n"))

	out, err = execRoot(t, "run", "replace-alerts-v2", "--file", path)
	require.NoError(t, err, out)
	assert.True(t, strings.HasSuffix(out, "No changes.\n"))
	assert.Equal(t, "Swal.fire({ icon: 'info', text: 'Deleted' });\n", readDoc(t, path))
}

func TestRun_NoOpLeavesFile(t *testing.T) {
	path := writeDoc(t, "if (!confirm('Proceed?')) return;\n")

	out, err := execRoot(t, "--no-op", "run", "replace-alerts-v2", "--file", path)
	require.NoError(t, err, out)
	assert.Equal(t, "if (!confirm('Proceed?')) return;\n", readDoc(t, path))
	assert.Contains(t, out, "-if (!confirm('Proceed?')) return;")
	assert.Contains(t, out, "+    if (!isConfirmed) return;")
	assert.Contains(t, out, "No changes written (no-op).")
}

func TestRun_Diff(t *testing.T) {
	path := writeDoc(t, "keep\nalert('無効なコードです');\n")
	out, err := execRoot(t, "run", "replace-alerts", "--file", path, "--diff")
	require.NoError(t, err, out)
	assert.Contains(t, out, "@@ -1,2 +1,2 @@")
	assert.Contains(t, out, "+Swal.fire({ icon: 'error', title: 'エラー', text: '無効なコードです' });")
}

func TestRun_InsertReport(t *testing.T) {
	src := "app.get('/register', (c) => {\n  <head>\n  </head>\n})\n"
	path := writeDoc(t, src)

	out, err := execRoot(t, "run", "add-axios", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added axios to /register")
	assert.Contains(t, readDoc(t, path), catalog.AxiosScript+"\n  </head>")

	out, err = execRoot(t, "run", "add-axios", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "axios already present in /register")
}

func TestRun_ExciseReport(t *testing.T) {
	path := writeDoc(t, "a\n<!-- 生徒画面プレビュー -->\nx\n</script>\nb\n")
	out, err := execRoot(t, "run", "clean-dashboard", "--file", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Removed student preview (lines 2-4)")
	assert.Equal(t, "a\nb\n", readDoc(t, path))
}

func TestRun_JSONOutcome(t *testing.T) {
	path := writeDoc(t, "alert(msg);\n")
	out, err := execRoot(t, "run", "fix-alerts", "--file", path, "--format", "json")
	require.NoError(t, err, out)

	var outcome catalog.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome), out)
	assert.Equal(t, "fix-alerts", outcome.Pass)
	assert.True(t, outcome.Changed)
	require.NotNil(t, outcome.Rewrite)
	res, ok := outcome.Rewrite.Lookup(catalog.RuleVariableAlert)
	require.True(t, ok)
	assert.Equal(t, 1, res.Count)
}

func TestRun_Errors(t *testing.T) {
	_, err := execRoot(t, "run", "replace-alerts", "--file", "/nonexistent/index.tsx")
	require.Error(t, err)
	assert.Equal(t, exitcode.FileSystemError, exitCodeFor(err))

	path := writeDoc(t, "x\n")
	_, err = execRoot(t, "run", "no-such-pass", "--file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownPass)

	_, err = execRoot(t, "run", "replace-alerts", "--file", path, "--format", "xml")
	require.Error(t, err)

	_, err = execRoot(t, "run")
	require.Error(t, err)
}
