package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalid is returned for configuration values outside their range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for patchwork
type Config struct {
	Target TargetConfig `mapstructure:"target"`
	Insert InsertConfig `mapstructure:"insert"`
	Audit  AuditConfig  `mapstructure:"audit"`
	Output OutputConfig `mapstructure:"output"`
}

// TargetConfig names the document the passes edit
type TargetConfig struct {
	Path string `mapstructure:"path"`
}

// InsertConfig tunes the idempotent inserter
type InsertConfig struct {
	Lookback int `mapstructure:"lookback"` // emitted lines searched for a prior insertion
}

// AuditConfig bounds audit samples
type AuditConfig struct {
	Samples int `mapstructure:"samples"` // negative keeps every occurrence
	Width   int `mapstructure:"width"`   // display cells per sample
}

// OutputConfig controls diff previews
type OutputConfig struct {
	Diff    bool `mapstructure:"diff"`
	Context int  `mapstructure:"context"`
}

var defaultConfig = Config{
	Target: TargetConfig{Path: "src/index.tsx"},
	Insert: InsertConfig{Lookback: 5},
	Audit:  AuditConfig{Samples: 5, Width: 50},
	Output: OutputConfig{Diff: false, Context: 3},
}

// Default returns the built-in configuration.
func Default() *Config {
	c := defaultConfig
	return &c
}

// projectConfigs are searched in order; the first readable file wins.
var projectConfigs = []string{
	".patchwork.yaml",
	".patchwork.yml",
	"patchwork.yaml",
	"patchwork.yml",
}

// LoadConfig loads configuration from the working directory and environment
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration with project files searched in dir.
// Environment variables (PATCHWORK_TARGET_PATH, ...) override files.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("target.path", defaultConfig.Target.Path)
	v.SetDefault("insert.lookback", defaultConfig.Insert.Lookback)
	v.SetDefault("audit.samples", defaultConfig.Audit.Samples)
	v.SetDefault("audit.width", defaultConfig.Audit.Width)
	v.SetDefault("output.diff", defaultConfig.Output.Diff)
	v.SetDefault("output.context", defaultConfig.Output.Context)

	v.SetEnvPrefix("PATCHWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := findProjectConfig(dir); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, file, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling config: %v", ErrInvalid, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects values the engines cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.Path) == "" {
		return fmt.Errorf("%w: target.path is empty", ErrInvalid)
	}
	if c.Insert.Lookback < 1 {
		return fmt.Errorf("%w: insert.lookback must be at least 1, got %d", ErrInvalid, c.Insert.Lookback)
	}
	if c.Audit.Width < 0 {
		return fmt.Errorf("%w: audit.width must not be negative", ErrInvalid)
	}
	if c.Output.Context < 0 {
		return fmt.Errorf("%w: output.context must not be negative", ErrInvalid)
	}
	return nil
}

func findProjectConfig(dir string) string {
	for _, name := range projectConfigs {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
