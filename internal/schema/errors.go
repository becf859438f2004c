package schema

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// LoadError represents a schema loading error with source position.
// CUE errors carry Pos; HCL and YAML errors carry only File.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
	File    string
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
