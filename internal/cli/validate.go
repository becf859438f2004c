package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AttributeInfo describes one schema attribute in command output.
type AttributeInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Capabilities string `json:"capabilities"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool            `json:"valid"`
	Attributes []AttributeInfo `json:"attributes"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-file>",
		Short: "Validate a schema file",
		Long: `Load a .cue, .hcl, or .yaml schema file and list its attributes with
their types and capabilities.

Exit codes:
  0 - Schema valid
  1 - Schema invalid
  2 - Schema file not found`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	reg, err := loadSchema(f, path)
	if err != nil {
		return err
	}

	result := ValidationResult{Valid: true, Attributes: []AttributeInfo{}}
	for _, a := range reg.Attributes() {
		result.Attributes = append(result.Attributes, AttributeInfo{
			Name:         a.Name,
			Type:         string(a.Type),
			Capabilities: a.Caps.String(),
		})
	}

	if opts.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ Schema valid: %d attribute(s)", len(result.Attributes))
	for _, a := range result.Attributes {
		fmt.Fprintf(&b, "\n  %-16s %-6s %s", a.Name, a.Type, a.Capabilities)
	}
	return f.Success(b.String())
}
