package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/custseg/internal/segment"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the artifact location used when none is configured.
const DefaultPath = "kmeans.yaml"

// Format identifies an artifact encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatOf picks the artifact format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension %q (want .yaml, .yml, .db or .sqlite)", filepath.Ext(path))
	}
}

// Load reads and validates the artifact at path. Every failure is returned as
// a *segment.LoadError naming the path.
func Load(path string) (*KMeans, error) {
	m, err := load(path)
	if err != nil {
		return nil, &segment.LoadError{Path: path, Err: err}
	}
	return m, nil
}

func load(path string) (*KMeans, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var m *KMeans
	switch format {
	case FormatSQLite:
		m, err = readSQLite(path)
	default:
		m, err = readYAML(path)
	}
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("incompatible artifact: %w", err)
	}
	return m, nil
}

// Save writes the model in the format implied by path's extension.
func Save(path string, m *KMeans) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatSQLite {
		return writeSQLite(path, m)
	}
	return writeYAML(path, m)
}

func readYAML(path string) (*KMeans, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	var m KMeans
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing artifact: %w", err)
	}
	return &m, nil
}

func writeYAML(path string, m *KMeans) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	return nil
}
