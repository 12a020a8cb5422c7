package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const exampleHeader = `# notion-meetings configuration
# Generated by: notion-meetings config init
#
# Every key can be overridden with an environment variable, e.g.
#   NOTION_MEETINGS_OUTPUT_FOLDER=/tmp/meetings
#   NOTION_MEETINGS_OPTIONS_DATE_REFERENCE=2026-02-12

`

// Example returns the defaults plus one sample category
func Example() *Config {
	cfg := Default()
	cfg.Notion.Categories = []Category{
		{
			Name: "數據週會議",
			URL:  "https://www.notion.so/2b6d1d3a5f4e8051b86fd9afa4e1f049",
		},
		{
			Name: "顧客洞察專案",
			URL:  "https://www.notion.so/2b6d1d3a5f4e804bb503c9fae827ebf8",
			Subpages: []Subpage{
				{Name: "2026/02", URL: "https://www.notion.so/2026-02-2fed1d3a5f4e80149903fbf8ba98f9b2"},
			},
		},
	}
	return cfg
}

// Marshal renders c as commented YAML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(exampleHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes c to path, refusing to overwrite an existing file unless force is set
func (c *Config) WriteFile(path string, force bool) error {
	path = expandHome(path)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create config dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
