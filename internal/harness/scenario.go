package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/assemble"
	"github.com/roach88/filterql/internal/filter"
)

// Scenario defines a filter conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path to a .cue, .hcl, or .yaml schema file.
	// LoadScenario resolves it relative to the scenario file.
	Schema string `yaml:"schema"`

	// Rows are optional fixture rows, keyed by attribute name plus "id".
	// Attributes missing from a row are stored as NULL.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Cases are the filters to check, in order.
	Cases []Case `yaml:"cases"`

	// ParseID is an optional fixed parse ID for deterministic output.
	// If empty, defaults to "test-parse-default".
	ParseID string `yaml:"parse_id,omitempty"`
}

// Case is one filter and its expected outcome.
type Case struct {
	// Filter is the filter text to parse.
	Filter string `yaml:"filter"`

	// Expect is the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect holds exactly one of Query or Error.
type Expect struct {
	// Query is the expected rendering of the assembled tree. The empty
	// string is the rendering of a filter matching everything.
	Query *string `yaml:"query,omitempty"`

	// Error is the expected error code, e.g. "UNKNOWN_ATTRIBUTE".
	Error string `yaml:"error,omitempty"`

	// IDs are the fixture row IDs the filter must match. Checked for
	// every accepted filter when the scenario has rows.
	IDs []int64 `yaml:"ids,omitempty"`
}

// knownCodes are the error codes a case may expect.
var knownCodes = map[string]bool{
	filter.CodeSyntax:                             true,
	string(assemble.ErrCodeUnknownAttribute):      true,
	string(assemble.ErrCodeTypeMismatch):          true,
	string(assemble.ErrCodeArity):                 true,
	string(assemble.ErrCodeValueParse):            true,
	string(assemble.ErrCodeMalformedStructure):    true,
	string(assemble.ErrCodeInternalInconsistency): true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative schema path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expected:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}

	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", s.Schema)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, row := range s.Rows {
		if _, ok := row["id"]; !ok {
			return fmt.Errorf("rows[%d]: id is required", i)
		}
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c, len(s.Rows) > 0); err != nil {
			return err
		}
	}

	return nil
}

func validateCase(index int, c *Case, hasRows bool) error {
	switch {
	case c.Expect.Query != nil && c.Expect.Error != "":
		return fmt.Errorf("cases[%d]: expect has both query and error", index)
	case c.Expect.Query == nil && c.Expect.Error == "":
		return fmt.Errorf("cases[%d]: expect needs query or error", index)
	case c.Expect.Error != "" && !knownCodes[c.Expect.Error]:
		return fmt.Errorf("cases[%d]: unknown error code %q", index, c.Expect.Error)
	case c.Expect.Error != "" && len(c.Expect.IDs) > 0:
		return fmt.Errorf("cases[%d]: ids cannot be expected from a rejected filter", index)
	case !hasRows && len(c.Expect.IDs) > 0:
		return fmt.Errorf("cases[%d]: ids need scenario rows", index)
	}
	return nil
}
