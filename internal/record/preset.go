package record

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a partial set of field values keyed by column name.
type Preset map[string]string

// LoadPreset reads a preset from a YAML mapping of column name to value.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing preset file: %w", err)
	}

	p := make(Preset, len(raw))
	for k, v := range raw {
		if v == nil {
			return nil, fmt.Errorf("parsing preset file: %s has no value", k)
		}
		p[k] = fmt.Sprint(v)
	}
	return p, nil
}

// ParseAssignments turns "Field=value" pairs into a preset.
func ParseAssignments(pairs []string) (Preset, error) {
	p := make(Preset, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid assignment %q (want Field=value)", pair)
		}
		p[strings.TrimSpace(name)] = value
	}
	return p, nil
}

// Apply writes the preset into the form. Names are applied in sorted order so
// the first reported error is stable.
func (p Preset) Apply(f *Form) error {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := f.SetText(name, p[name]); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the record as a preset file.
func (r Record) Save(path string) error {
	out, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing preset file: %w", err)
	}

	return nil
}
