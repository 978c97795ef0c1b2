package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"devconsole/internal/gesture"
)

// Config holds all devconsole configuration.
type Config struct {
	// Console settings
	Console ConsoleConfig `yaml:"console"`

	// Opening gesture
	Gesture GestureConfig `yaml:"gesture"`

	// View settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ConsoleConfig selects which declared modules discovery scans.
type ConsoleConfig struct {
	// Modules lists module names to scan. Empty means every non-framework module.
	Modules []string `yaml:"modules"`

	// OpenKey toggles the console from the keyboard, in bubbletea key
	// notation ("`", "f1", "ctrl+o").
	OpenKey string `yaml:"open_key"`
}

// GestureConfig tunes the pointer gesture that opens the console.
type GestureConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Loops     int     `yaml:"loops"`
	MinPoints int     `yaml:"min_points"`
	MinStep   float64 `yaml:"min_step"`
}

// Recognizer converts the settings for gesture.New.
func (g GestureConfig) Recognizer() gesture.Config {
	return gesture.Config{Loops: g.Loops, MinPoints: g.MinPoints, MinStep: g.MinStep}
}

// UIConfig configures the console view.
type UIConfig struct {
	DarkMode bool `yaml:"dark_mode"`
	// RenderMarkdown renders operation descriptions with glamour.
	RenderMarkdown bool `yaml:"render_markdown"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			OpenKey: "`",
		},
		Gesture: GestureConfig{
			Enabled:   true,
			Loops:     2,
			MinPoints: 10,
			MinStep:   1,
		},
		UI: UIConfig{
			DarkMode:       true,
			RenderMarkdown: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the config path inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".devconsole", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if mods := os.Getenv("DEVCONSOLE_MODULES"); mods != "" {
		c.Console.Modules = splitList(mods)
	}
	if v, err := strconv.ParseBool(os.Getenv("DEVCONSOLE_DEBUG")); err == nil {
		c.Logging.DebugMode = v
		if v {
			c.Logging.Level = "debug"
		}
	}
	if v, err := strconv.ParseBool(os.Getenv("DEVCONSOLE_DARK_MODE")); err == nil {
		c.UI.DarkMode = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Gesture.Loops < 1 {
		return fmt.Errorf("gesture.loops must be at least 1, got %d", c.Gesture.Loops)
	}
	if c.Gesture.MinPoints < 3 {
		return fmt.Errorf("gesture.min_points must be at least 3, got %d", c.Gesture.MinPoints)
	}
	if c.Gesture.MinStep <= 0 {
		return fmt.Errorf("gesture.min_step must be positive, got %v", c.Gesture.MinStep)
	}
	if strings.TrimSpace(c.Console.OpenKey) == "" {
		return fmt.Errorf("console.open_key must not be empty")
	}

	validLevel := c.Logging.Level == ""
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if f := c.Logging.Format; f != "" && f != "json" && f != "text" {
		return fmt.Errorf("invalid logging format: %s (valid: json, text)", f)
	}

	return nil
}
