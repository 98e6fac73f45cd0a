package retrieval

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest optionally remaps corpus files to source names and excludes
// files from indexing. Without a manifest every .md/.txt file in the
// docs dir is indexed under its base name.
type Manifest struct {
	Sources []SourceSpec `yaml:"sources"`
}

// SourceSpec describes one corpus file.
type SourceSpec struct {
	File    string `yaml:"file"`
	Name    string `yaml:"name"`
	Exclude bool   `yaml:"exclude"`
}

// LoadManifest reads a corpus manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieval: read manifest %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "retrieval: parse manifest %s", path)
	}
	return &m, nil
}

// sourceName returns the indexing name for file, and false if the file
// is excluded.
func (m *Manifest) sourceName(file, fallback string) (string, bool) {
	if m == nil {
		return fallback, true
	}
	for _, s := range m.Sources {
		if s.File != file {
			continue
		}
		if s.Exclude {
			return "", false
		}
		if s.Name != "" {
			return s.Name, true
		}
		return fallback, true
	}
	return fallback, true
}
