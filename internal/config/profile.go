package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfile overlays the YAML import profile at path onto base and
// validates the result. Keys absent from the file keep base's values;
// unknown keys are rejected.
//
//	header: 1
//	sep: ";"
//	encoding: latin1
//	sample_rows: 20
func LoadProfile(path string, base ImportConfig) (ImportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(data, base)
}

// ParseProfile is LoadProfile over an in-memory document.
func ParseProfile(data []byte, base ImportConfig) (ImportConfig, error) {
	cfg := base
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return base, fmt.Errorf("parse profile: %w", err)
	}

	if errs := cfg.validate(); len(errs) > 0 {
		return base, fmt.Errorf("profile validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return cfg, nil
}
