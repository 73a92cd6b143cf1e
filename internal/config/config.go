package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Color modes accepted by the color option
const (
	ColorNever  = "never"
	ColorAuto   = "auto"
	ColorAlways = "always"
)

// Config represents mdtask configuration options
type Config struct {
	// AfterContext is how many lines after each match are offered as possible continuation lines
	AfterContext int `yaml:"after_context"`

	// BeforeContext is how many lines before each match are reported; they are never printed
	BeforeContext int `yaml:"before_context"`

	// Extensions lists the file extensions mined when walking directories (empty = every file)
	Extensions []string `yaml:"extensions"`

	// ExcludeDirs lists directory names never descended into
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Hidden includes dot files and dot directories
	Hidden bool `yaml:"hidden"`

	// FollowLinks follows symbolic links while walking
	FollowLinks bool `yaml:"follow_links"`

	// IgnoreFiles honours .gitignore and .ignore files
	IgnoreFiles bool `yaml:"ignore_files"`

	// Pattern overrides the heading-or-task line matcher (empty = built in)
	Pattern string `yaml:"pattern"`

	// SeparatorOnMatchOnly prints a document's separator only once it has a task
	SeparatorOnMatchOnly bool `yaml:"separator_on_match_only"`

	// SkipCodeBlocks never matches lines inside fenced or indented code blocks
	SkipCodeBlocks bool `yaml:"skip_code_blocks"`

	// SkipFrontMatter never matches lines inside a leading YAML front matter block
	SkipFrontMatter bool `yaml:"skip_front_matter"`

	// Color selects colored output: never, auto, always
	Color string `yaml:"color"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		AfterContext:         20,
		BeforeContext:        0,
		Extensions:           []string{".md"},
		ExcludeDirs:          []string{".git"},
		Hidden:               false,
		FollowLinks:          true,
		IgnoreFiles:          true,
		Pattern:              "",
		SeparatorOnMatchOnly: false,
		SkipCodeBlocks:       false,
		SkipFrontMatter:      false,
		Color:                ColorNever,
		LogLevel:             "warn",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Keys absent from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FlagOverrides carries CLI flag values; nil fields were not set on the command line
type FlagOverrides struct {
	AfterContext         *int
	BeforeContext        *int
	Extensions           *[]string
	Hidden               *bool
	FollowLinks          *bool
	IgnoreFiles          *bool
	Pattern              *string
	SeparatorOnMatchOnly *bool
	SkipCodeBlocks       *bool
	SkipFrontMatter      *bool
	Color                *string
	LogLevel             *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f FlagOverrides) {
	if f.AfterContext != nil {
		c.AfterContext = *f.AfterContext
	}
	if f.BeforeContext != nil {
		c.BeforeContext = *f.BeforeContext
	}
	if f.Extensions != nil {
		c.Extensions = *f.Extensions
	}
	if f.Hidden != nil {
		c.Hidden = *f.Hidden
	}
	if f.FollowLinks != nil {
		c.FollowLinks = *f.FollowLinks
	}
	if f.IgnoreFiles != nil {
		c.IgnoreFiles = *f.IgnoreFiles
	}
	if f.Pattern != nil {
		c.Pattern = *f.Pattern
	}
	if f.SeparatorOnMatchOnly != nil {
		c.SeparatorOnMatchOnly = *f.SeparatorOnMatchOnly
	}
	if f.SkipCodeBlocks != nil {
		c.SkipCodeBlocks = *f.SkipCodeBlocks
	}
	if f.SkipFrontMatter != nil {
		c.SkipFrontMatter = *f.SkipFrontMatter
	}
	if f.Color != nil {
		c.Color = *f.Color
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.AfterContext < 0 {
		return fmt.Errorf("after_context must be >= 0, got %d", c.AfterContext)
	}
	if c.BeforeContext < 0 {
		return fmt.Errorf("before_context must be >= 0, got %d", c.BeforeContext)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	switch c.Color {
	case ColorNever, ColorAuto, ColorAlways:
	default:
		return fmt.Errorf("invalid color %q, must be one of: never, auto, always", c.Color)
	}

	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
		}
	}

	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
