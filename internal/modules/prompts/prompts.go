// Package prompts loads the system prompts used by the mentor and doubt flows.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const promptsEnv = "PROMPTS_YAML"

//go:embed prompts.yaml
var promptsFS embed.FS

type Name string

const (
	Mentor Name = "mentor"
	Doubt  Name = "doubt"
)

var required = []Name{Mentor, Doubt}

type yamlCatalog struct {
	Version int                   `yaml:"version"`
	Prompts map[string]yamlPrompt `yaml:"prompts"`
}

type yamlPrompt struct {
	System string `yaml:"system"`
}

type Catalog struct {
	Version int
	system  map[Name]string
}

// System returns the system prompt for name, or an empty string for an unknown name.
func (c *Catalog) System(name Name) string {
	if c == nil {
		return ""
	}
	return c.system[name]
}

// Load reads the catalog from the file named by PROMPTS_YAML, or the embedded default.
func Load() (*Catalog, error) {
	data, err := read()
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var raw yamlCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	c := &Catalog{Version: raw.Version, system: map[Name]string{}}
	for key, p := range raw.Prompts {
		c.system[Name(strings.ToLower(strings.TrimSpace(key)))] = strings.TrimSpace(p.System)
	}
	var missing []string
	for _, name := range required {
		if c.system[name] == "" {
			missing = append(missing, string(name))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("prompts: missing system prompt for %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func read() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(promptsEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", promptsEnv, err)
		}
		return data, nil
	}
	data, err := promptsFS.ReadFile("prompts.yaml")
	if err != nil {
		return nil, errors.New("embedded prompts.yaml missing")
	}
	return data, nil
}

