package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one catalog feed in the sources registry.
type SourceConfig struct {
	Name       string `yaml:"name"`
	BaseURL    string `yaml:"base_url"`
	Collection string `yaml:"collection,omitempty"` // optional collection handle
	Locale     string `yaml:"locale"`
	Currency   string `yaml:"currency,omitempty"`
	Supplier   string `yaml:"supplier,omitempty"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadSources reads the YAML source registry. Every entry must name the
// source, its base URL and its catalog locale.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for i := range file.Sources {
		src := &file.Sources[i]
		if src.Name == "" || src.BaseURL == "" || src.Locale == "" {
			return nil, fmt.Errorf("source %d in %s is missing name, base_url or locale", i, path)
		}
		if src.Currency == "" {
			src.Currency = "USD"
		}
	}

	return file.Sources, nil
}
