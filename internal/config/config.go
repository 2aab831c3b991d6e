// Package config loads the HCL configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultFile is the config path used when none is given.
const DefaultFile = "cuescore.hcl"

// Config represents the complete configuration.
type Config struct {
	Storage *StorageSettings `hcl:"storage,block"`
	Log     *LogSettings     `hcl:"log,block"`
	UI      *UISettings      `hcl:"ui,block"`
}

// StorageSettings controls where state is kept.
type StorageSettings struct {
	Dir       string `hcl:"dir,optional"`
	Ephemeral bool   `hcl:"ephemeral,optional"`
}

// LogSettings controls logging.
type LogSettings struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
	File   string `hcl:"file,optional"`
}

// UISettings controls the terminal UI.
type UISettings struct {
	Theme              string `hcl:"theme,optional"`
	NoticeMillis       int    `hcl:"notice_ms,optional"`
	ConfirmDestructive *bool  `hcl:"confirm_destructive,optional"`
	Color              *bool  `hcl:"color,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	confirm, color := true, true
	return &Config{
		Storage: &StorageSettings{
			Dir: DefaultDataDir(),
		},
		Log: &LogSettings{
			Level:  "warn",
			Format: "text",
		},
		UI: &UISettings{
			Theme:              "default",
			NoticeMillis:       1000,
			ConfirmDestructive: &confirm,
			Color:              &color,
		},
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/cuescore, falling back to
// ~/.local/share/cuescore and finally ./.cuescore.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "cuescore")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "cuescore")
	}
	return ".cuescore"
}

// Load reads the configuration from filename. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Storage == nil {
		c.Storage = defaults.Storage
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaults.Storage.Dir
	}

	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	if c.UI == nil {
		c.UI = defaults.UI
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.NoticeMillis == 0 {
		c.UI.NoticeMillis = defaults.UI.NoticeMillis
	}
	if c.UI.ConfirmDestructive == nil {
		c.UI.ConfirmDestructive = defaults.UI.ConfirmDestructive
	}
	if c.UI.Color == nil {
		c.UI.Color = defaults.UI.Color
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{
		"text":   true,
		"json":   true,
		"logfmt": true,
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	validThemes := map[string]bool{
		"default": true,
		"mono":    true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}

	if c.UI.NoticeMillis < 0 || c.UI.NoticeMillis > 10000 {
		return fmt.Errorf("notice_ms must be between 0 and 10000, got %d", c.UI.NoticeMillis)
	}

	if !c.Storage.Ephemeral && c.Storage.Dir == "" {
		return fmt.Errorf("storage dir is required unless ephemeral")
	}

	return nil
}

// Confirm reports whether destructive actions need confirmation.
func (c *Config) Confirm() bool {
	return c.UI.ConfirmDestructive == nil || *c.UI.ConfirmDestructive
}

// ColorEnabled reports whether the UI should use colour.
func (c *Config) ColorEnabled() bool {
	return c.UI.Color == nil || *c.UI.Color
}
