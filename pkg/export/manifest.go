// Package export writes optional machine readable companions of a report run.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/crashviz/pkg/stats"
)

// Manifest describes one report run.
type Manifest struct {
	RunID       string          `yaml:"runId"`
	Generator   string          `yaml:"generator"`
	Input       string          `yaml:"input"`
	GeneratedAt time.Time       `yaml:"generatedAt"`
	Records     int             `yaml:"records"`
	Summary     *stats.Summary  `yaml:"summary,omitempty"`
	Artifacts   []ArtifactEntry `yaml:"artifacts"`
}

type ArtifactEntry struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Status string `yaml:"status"`
	Error  string `yaml:"error,omitempty"`
}

var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func WriteManifest(path string, m *Manifest) (err error) {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close manifest: %w", cerr)
		}
	}()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}

func ReadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
