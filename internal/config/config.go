package config

import (
	"fmt"
	"os"

	"github.com/gyeh/icd9/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for an icd9tool run.
type Config struct {
	DSN           string
	FilePath      string // source RTF tabular list
	LookupPath    string // Parquet lookup export, used instead of FilePath when set
	OutPath       string
	MapPath       string // comorbidity map YAML
	LogFormat     string // "text" or "json"
	EffectiveDate string
	Activate      bool
	Force         bool
	KeepStaging   bool
	Workers       int      `yaml:"workers"`
	Kinds         []string `yaml:"kinds"` // subset of AllCodeKinds to load
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Kinds     []string `yaml:"kinds"`
	Workers   int      `yaml:"workers"`
	LogFormat string   `yaml:"log_format"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Kinds = yc.Kinds
	if yc.Workers > 0 {
		c.Workers = yc.Workers
	}
	if yc.LogFormat != "" {
		c.LogFormat = yc.LogFormat
	}
	return c.ValidateKinds()
}

// ValidateKinds checks that every entry in Kinds is a known code kind name.
// If Kinds is empty, it defaults to all AllCodeKinds names.
func (c *Config) ValidateKinds() error {
	if len(c.Kinds) == 0 {
		c.Kinds = make([]string, len(model.AllCodeKinds))
		for i, ck := range model.AllCodeKinds {
			c.Kinds[i] = ck.Name
		}
		return nil
	}
	for _, name := range c.Kinds {
		if _, ok := model.CodeKindByName(name); !ok {
			return fmt.Errorf("unknown code kind %q in config", name)
		}
	}
	return nil
}

// KindColumns returns the kind column values selected by Kinds.
func (c *Config) KindColumns() map[string]bool {
	out := make(map[string]bool, len(c.Kinds))
	for _, name := range c.Kinds {
		if ck, ok := model.CodeKindByName(name); ok {
			out[ck.Column] = true
		}
	}
	return out
}

// Validate checks that a source document is given and readable.
func (c *Config) Validate() error {
	if c.FilePath == "" && c.LookupPath == "" {
		return fmt.Errorf("--file or --lookup is required")
	}
	for _, p := range []string{c.FilePath, c.LookupPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateWithDSN checks the source file and the DSN.
func (c *Config) ValidateWithDSN() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or ICD9_DB_URL is required")
	}
	return nil
}
