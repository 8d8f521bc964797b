package cmd

import (
	"encoding/json"
	"testing"

	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasses_Text(t *testing.T) {
	out, err := execRoot(t, "passes")
	require.NoError(t, err, out)
	for _, p := range catalog.All() {
		assert.Contains(t, out, p.Name)
	}
	assert.NotContains(t, out, "- "+catalog.RuleGenericAlert)

	out, err = execRoot(t, "passes", "-v")
	require.NoError(t, err, out)
	assert.Contains(t, out, "- "+catalog.RuleGenericAlert)
}

func TestPasses_JSON(t *testing.T) {
	out, err := execRoot(t, "passes", "--format", "json")
	require.NoError(t, err, out)

	var infos []passInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos), out)
	require.Len(t, infos, len(catalog.All()))

	byName := map[string]passInfo{}
	for _, i := range infos {
		byName[i.Name] = i
	}
	assert.Equal(t, "insert", byName["add-axios"].Kind)
	assert.Contains(t, byName["replace-alerts-v2"].Rules, catalog.RuleClipboardAlert)
	assert.Contains(t, byName["remove-preview"].Rules, "preview card")
	assert.Contains(t, byName["check-alerts"].Rules, catalog.ProbeSwalNavigates)
}

func TestVersion(t *testing.T) {
	out, err := execRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "patchwork dev\n", out)

	out, err = execRoot(t, "version", "--extended")
	require.NoError(t, err)
	assert.Contains(t, out, "Go version:")
	assert.Contains(t, out, "Platform:")

	out, err = execRoot(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
}
