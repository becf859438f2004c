package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclSchemaFile represents the top-level structure of an HCL schema file.
type hclSchemaFile struct {
	Attributes []*hclAttribute `hcl:"attribute,block"`
}

type hclAttribute struct {
	Name       string `hcl:"name,label"`
	Type       string `hcl:"type"`
	Orderable  *bool  `hcl:"orderable,optional"`
	TextValued *bool  `hcl:"text,optional"`
}

// DecodeHCL parses HCL schema source into a Registry:
//
//	attribute "manufacturer" {
//	  type = "string"
//	}
//	attribute "vin" {
//	  type      = "string"
//	  orderable = false
//	}
func DecodeHCL(filename string, src []byte) (*Registry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL schema %s: %w", filename, diags)
	}

	var parsed hclSchemaFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL schema %s: %w", filename, diags)
	}

	defs := make([]Definition, 0, len(parsed.Attributes))
	for _, a := range parsed.Attributes {
		defs = append(defs, Definition{
			Name:       a.Name,
			Type:       a.Type,
			Orderable:  a.Orderable,
			TextValued: a.TextValued,
		})
	}

	reg, err := Build(defs)
	if err != nil {
		return nil, &LoadError{Field: "attribute", Message: err.Error(), File: filename}
	}
	return reg, nil
}
