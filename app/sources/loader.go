// Package sources loads the list of feed sources to normalize from a
// YAML file.
package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source names one feed to normalize.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type fileSchema struct {
	Feeds []Source `yaml:"feeds"`
}

// Load reads the source list from a YAML file. A missing file yields an
// empty list so the service can run on ad-hoc sources alone.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var parsed fileSchema
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i, src := range parsed.Feeds {
		if src.URL == "" {
			return nil, fmt.Errorf("source at index %d has no url", i)
		}
		if src.Name == "" {
			parsed.Feeds[i].Name = src.URL
		}
	}

	return parsed.Feeds, nil
}
