package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest selects which tools the host exposes. An empty or missing
// manifest enables everything.
type Manifest struct {
	Tools []string `yaml:"tools"`
}

// ManifestPath returns the default tool manifest path: ~/.quarrybot/tools.yaml.
func ManifestPath() string {
	return filepath.Join(DataDir(), "tools.yaml")
}

// LoadManifest reads the tool manifest at path. If path is empty,
// ManifestPath() is used. A missing file yields an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		path = ManifestPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Enabled reports whether the named tool should be registered.
func (m *Manifest) Enabled(name string) bool {
	if m == nil || len(m.Tools) == 0 {
		return true
	}
	for _, t := range m.Tools {
		if t == name {
			return true
		}
	}
	return false
}
