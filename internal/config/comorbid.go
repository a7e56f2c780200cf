package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/icd9/internal/comorbid"
)

// mapFile is the on-disk comorbidity map. groups is kept as a node so the
// file's group order survives decoding.
type mapFile struct {
	Groups    yaml.Node           `yaml:"groups"`
	Hierarchy map[string][]string `yaml:"hierarchy"`
	Weights   map[string]int      `yaml:"weights"`
}

// LoadComorbidityMap reads a comorbidity map YAML file.
func LoadComorbidityMap(path string) (*comorbid.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read comorbidity map: %w", err)
	}
	m, err := ParseComorbidityMap(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseComorbidityMap decodes a comorbidity map. A group's patterns may be a
// list or a single string.
func ParseComorbidityMap(data []byte) (*comorbid.Map, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse comorbidity map: %w", err)
	}
	if f.Groups.Kind != yaml.MappingNode || len(f.Groups.Content) == 0 {
		return nil, fmt.Errorf("comorbidity map needs a non-empty groups mapping")
	}

	m := comorbid.NewMap()
	for i := 0; i+1 < len(f.Groups.Content); i += 2 {
		key, val := f.Groups.Content[i], f.Groups.Content[i+1]
		var patterns []string
		switch val.Kind {
		case yaml.ScalarNode:
			patterns = []string{val.Value}
		case yaml.SequenceNode:
			if err := val.Decode(&patterns); err != nil {
				return nil, fmt.Errorf("group %q (line %d): %w", key.Value, val.Line, err)
			}
		default:
			return nil, fmt.Errorf("group %q (line %d): patterns must be a list", key.Value, val.Line)
		}
		if !m.Groups.Set(key.Value, patterns) {
			return nil, fmt.Errorf("group %q defined twice (line %d)", key.Value, key.Line)
		}
	}

	for top, lower := range f.Hierarchy {
		for _, g := range append([]string{top}, lower...) {
			if !m.Groups.Has(g) {
				return nil, fmt.Errorf("hierarchy names unknown group %q", g)
			}
		}
	}
	for g := range f.Weights {
		if !m.Groups.Has(g) {
			return nil, fmt.Errorf("weights name unknown group %q", g)
		}
	}
	if f.Hierarchy != nil {
		m.Hierarchy = f.Hierarchy
	}
	if f.Weights != nil {
		m.Weights = f.Weights
	}
	return m, nil
}
