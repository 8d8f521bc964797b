package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	config, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "src/index.tsx", config.Target.Path)
	assert.Equal(t, 5, config.Insert.Lookback)
	assert.Equal(t, 5, config.Audit.Samples)
	assert.Equal(t, 50, config.Audit.Width)
	assert.False(t, config.Output.Diff)
	assert.Equal(t, 3, config.Output.Context)
	assert.Equal(t, Default(), config)
}

func TestLoadFrom_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	content := "target:\n  path: web/app.tsx\naudit:\n  samples: -1\noutput:\n  diff: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patchwork.yaml"), []byte(content), 0o600))

	config, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "web/app.tsx", config.Target.Path)
	assert.Equal(t, -1, config.Audit.Samples)
	assert.True(t, config.Output.Diff)
	assert.Equal(t, 5, config.Insert.Lookback, "unset keys keep defaults")
}

func TestLoadFrom_DotFileWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patchwork.yaml"), []byte("target:\n  path: plain.tsx\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".patchwork.yaml"), []byte("target:\n  path: dot.tsx\n"), 0o600))

	config, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "dot.tsx", config.Target.Path)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("PATCHWORK_TARGET_PATH", "env.tsx")
	t.Setenv("PATCHWORK_INSERT_LOOKBACK", "8")

	config, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "env.tsx", config.Target.Path)
	assert.Equal(t, 8, config.Insert.Lookback)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "target: [\n"},
		{"zero lookback", "insert:\n  lookback: 0\n"},
		{"negative width", "audit:\n  width: -2\n"},
		{"negative context", "output:\n  context: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".patchwork.yml"), []byte(tt.content), 0o600))
			_, err := LoadFrom(dir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestValidate_EmptyTarget(t *testing.T) {
	c := Default()
	c.Target.Path = "  "
	assert.True(t, errors.Is(c.Validate(), ErrInvalid))
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "src/index.tsx", config.Target.Path)
}
