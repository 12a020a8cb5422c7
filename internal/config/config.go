// Package config loads the scraper configuration.
//
// Settings come from a YAML file read with viper, overlaid on Default(), and can be
// overridden per key with NOTION_MEETINGS_* environment variables
// (NOTION_MEETINGS_OUTPUT_FOLDER, NOTION_MEETINGS_CRAWL_TIMEOUT, ...). The resulting
// Config is a plain value passed to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultFileName is looked up in the working directory when no path is given
	DefaultFileName = "config.yaml"

	envPrefix = "NOTION_MEETINGS"
)

type Config struct {
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Notion  NotionConfig  `mapstructure:"notion" yaml:"notion"`
	Crawl   CrawlConfig   `mapstructure:"crawl" yaml:"crawl"`
	Options OptionsConfig `mapstructure:"options" yaml:"options"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig controls where and how meeting files are written
type OutputConfig struct {
	Folder string `mapstructure:"folder" yaml:"folder"`
	// DateFormat is a strftime layout used in filenames, e.g. %Y%m%d
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	// PerDateFolders writes files under <folder>/<YYYY-MM-DD>/
	PerDateFolders bool           `mapstructure:"per_date_folders" yaml:"per_date_folders"`
	ICS            bool           `mapstructure:"ics" yaml:"ics"`
	Sanitize       SanitizeConfig `mapstructure:"sanitize" yaml:"sanitize"`
}

// SanitizeConfig tunes filename cleanup. Zero values fall back to the defaults.
type SanitizeConfig struct {
	ReplaceSlash     string `mapstructure:"replace_slash" yaml:"replace_slash"`
	ReplaceAmpersand string `mapstructure:"replace_ampersand" yaml:"replace_ampersand"`
	ReplaceSpace     string `mapstructure:"replace_space" yaml:"replace_space"`
	MaxLength        int    `mapstructure:"max_length" yaml:"max_length"`
}

type NotionConfig struct {
	Categories []Category `mapstructure:"categories" yaml:"categories"`
}

// Category is one top-level meeting page
type Category struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
	// Enabled defaults to true when omitted
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`
	// Subpages are crawled in addition to the links discovered on the category page
	Subpages []Subpage `mapstructure:"subpages" yaml:"subpages,omitempty"`
}

// Subpage is an explicitly configured subcategory page
type Subpage struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// IsEnabled reports whether the category should be crawled
func (c Category) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

type CrawlConfig struct {
	// Timeout per page request, in milliseconds
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
	// WaitTime between consecutive page requests, in milliseconds
	WaitTime            int    `mapstructure:"wait_time" yaml:"wait_time"`
	MaxPagesPerCategory int    `mapstructure:"max_pages_per_category" yaml:"max_pages_per_category"`
	LinkSelector        string `mapstructure:"link_selector" yaml:"link_selector"`
	UserAgent           string `mapstructure:"user_agent" yaml:"user_agent"`
}

// TimeoutDuration returns Timeout as a time.Duration
func (c CrawlConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// WaitDuration returns WaitTime as a time.Duration
func (c CrawlConfig) WaitDuration() time.Duration {
	return time.Duration(c.WaitTime) * time.Millisecond
}

type OptionsConfig struct {
	// DateReference is a YYYY-MM-DD date; empty means today
	DateReference  string `mapstructure:"date_reference" yaml:"date_reference"`
	Verbose        bool   `mapstructure:"verbose" yaml:"verbose"`
	ExtractSummary bool   `mapstructure:"extract_summary" yaml:"extract_summary"`
	ExtractNotes   bool   `mapstructure:"extract_notes" yaml:"extract_notes"`
}

type LoggingConfig struct {
	// Level is debug, info, warn or error. Empty means info, or warn when
	// options.verbose is false.
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Folder:     "./output",
			DateFormat: "%Y%m%d",
			Sanitize:   DefaultSanitize(),
		},
		Notion: NotionConfig{
			Categories: []Category{},
		},
		Crawl: CrawlConfig{
			Timeout:             60000,
			WaitTime:            4000,
			MaxPagesPerCategory: 10,
			LinkSelector:        `a[href*="/so/"]`,
			UserAgent:           "notion-meetings/1.0 (github.com/pfrederiksen/notion-meetings)",
		},
		Options: OptionsConfig{
			Verbose:        true,
			ExtractSummary: true,
			ExtractNotes:   true,
		},
	}
}

// DefaultSanitize returns the default filename cleanup settings
func DefaultSanitize() SanitizeConfig {
	return SanitizeConfig{
		ReplaceSlash:     "-",
		ReplaceAmpersand: "and",
		ReplaceSpace:     "_",
		MaxLength:        50,
	}
}

// WithDefaults returns s with zero-valued fields replaced by the defaults
func (s SanitizeConfig) WithDefaults() SanitizeConfig {
	d := DefaultSanitize()
	if s.ReplaceSlash == "" {
		s.ReplaceSlash = d.ReplaceSlash
	}
	if s.ReplaceAmpersand == "" {
		s.ReplaceAmpersand = d.ReplaceAmpersand
	}
	if s.ReplaceSpace == "" {
		s.ReplaceSpace = d.ReplaceSpace
	}
	if s.MaxLength <= 0 {
		s.MaxLength = d.MaxLength
	}
	return s
}

// Load reads the configuration at path over the defaults.
//
// An empty path looks for DefaultFileName in the working directory and falls back to the
// defaults when it does not exist. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	path = expandHome(path)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers scalar defaults so environment overrides are picked up
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output.folder", cfg.Output.Folder)
	v.SetDefault("output.date_format", cfg.Output.DateFormat)
	v.SetDefault("output.per_date_folders", cfg.Output.PerDateFolders)
	v.SetDefault("output.ics", cfg.Output.ICS)
	v.SetDefault("output.sanitize.replace_slash", cfg.Output.Sanitize.ReplaceSlash)
	v.SetDefault("output.sanitize.replace_ampersand", cfg.Output.Sanitize.ReplaceAmpersand)
	v.SetDefault("output.sanitize.replace_space", cfg.Output.Sanitize.ReplaceSpace)
	v.SetDefault("output.sanitize.max_length", cfg.Output.Sanitize.MaxLength)
	v.SetDefault("crawl.timeout", cfg.Crawl.Timeout)
	v.SetDefault("crawl.wait_time", cfg.Crawl.WaitTime)
	v.SetDefault("crawl.max_pages_per_category", cfg.Crawl.MaxPagesPerCategory)
	v.SetDefault("crawl.link_selector", cfg.Crawl.LinkSelector)
	v.SetDefault("crawl.user_agent", cfg.Crawl.UserAgent)
	v.SetDefault("options.date_reference", cfg.Options.DateReference)
	v.SetDefault("options.verbose", cfg.Options.Verbose)
	v.SetDefault("options.extract_summary", cfg.Options.ExtractSummary)
	v.SetDefault("options.extract_notes", cfg.Options.ExtractNotes)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks settings that would otherwise fail late in a run
func (c *Config) Validate() error {
	var errs []error
	for i, cat := range c.Notion.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, fmt.Errorf("notion.categories[%d]: name is required", i))
		}
		if strings.TrimSpace(cat.URL) == "" {
			errs = append(errs, fmt.Errorf("notion.categories[%d] (%s): url is required", i, cat.Name))
		}
		for j, sub := range cat.Subpages {
			if strings.TrimSpace(sub.Name) == "" || strings.TrimSpace(sub.URL) == "" {
				errs = append(errs, fmt.Errorf("notion.categories[%d].subpages[%d]: name and url are required", i, j))
			}
		}
	}
	if c.Crawl.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("crawl.timeout must be positive"))
	}
	if c.Crawl.WaitTime < 0 {
		errs = append(errs, fmt.Errorf("crawl.wait_time must not be negative"))
	}
	if c.Crawl.MaxPagesPerCategory <= 0 {
		errs = append(errs, fmt.Errorf("crawl.max_pages_per_category must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// EnabledCategories returns the categories that should be crawled
func (c *Config) EnabledCategories() []Category {
	enabled := make([]Category, 0, len(c.Notion.Categories))
	for _, cat := range c.Notion.Categories {
		if cat.IsEnabled() {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// CategoryNames returns the names of the enabled categories
func (c *Config) CategoryNames() []string {
	var names []string
	for _, cat := range c.EnabledCategories() {
		names = append(names, cat.Name)
	}
	return names
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
