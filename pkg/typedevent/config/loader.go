package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.Std().String(), nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Std().String())
}

// FromFile loads a single channel declaration, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Channel, error) {
	data, ext, err := readFile(path)
	if err != nil {
		return Channel{}, err
	}
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return FromJSON(data)
	}
}

// FileFromPath loads a multi-channel document, auto-detecting format by extension.
func FileFromPath(path string) (File, error) {
	data, ext, err := readFile(path)
	if err != nil {
		return File{}, err
	}
	switch ext {
	case ".yaml", ".yml":
		return FileFromYAML(data)
	default:
		return FileFromJSON(data)
	}
}

// FromYAML parses a single channel declaration.
func FromYAML(data []byte) (Channel, error) {
	var c Channel
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Channel{}, fmt.Errorf("parse yaml: %w", err)
	}
	return c, c.Validate()
}

// FromJSON parses a single channel declaration.
func FromJSON(data []byte) (Channel, error) {
	var c Channel
	if err := json.Unmarshal(data, &c); err != nil {
		return Channel{}, fmt.Errorf("parse json: %w", err)
	}
	return c, c.Validate()
}

// FileFromYAML parses a multi-channel document.
func FileFromYAML(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse yaml: %w", err)
	}
	return f, f.Validate()
}

// FileFromJSON parses a multi-channel document.
func FileFromJSON(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse json: %w", err)
	}
	return f, f.Validate()
}

func readFile(path string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, "", fmt.Errorf("unsupported config file extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config file: %w", err)
	}
	return data, ext, nil
}
