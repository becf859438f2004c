package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlSchemaFile is the YAML schema layout.
type yamlSchemaFile struct {
	Attributes []yamlAttribute `yaml:"attributes"`
}

type yamlAttribute struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Orderable  *bool  `yaml:"orderable,omitempty"`
	TextValued *bool  `yaml:"text,omitempty"`
}

// DecodeYAML parses YAML schema source into a Registry.
// Unknown fields are rejected (catches typos like "orderabel:").
func DecodeYAML(filename string, src []byte) (*Registry, error) {
	var parsed yamlSchemaFile
	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML schema %s: %w", filename, err)
	}

	if len(parsed.Attributes) == 0 {
		return nil, &LoadError{Field: "attributes", Message: "attributes list is required and must be non-empty", File: filename}
	}

	reg := NewRegistry()
	for _, a := range parsed.Attributes {
		attr, err := Definition{
			Name:       a.Name,
			Type:       a.Type,
			Orderable:  a.Orderable,
			TextValued: a.TextValued,
		}.Attribute()
		if err == nil {
			err = reg.Register(attr)
		}
		if err != nil {
			return nil, &LoadError{Field: "attributes", Message: err.Error(), File: filename}
		}
	}
	return reg, nil
}
