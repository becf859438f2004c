package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a schema file, choosing the decoder by extension:
// .cue, .hcl, or .yaml/.yml.
func LoadFile(path string) (*Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return CompileCUESource(path, src)
	case ".hcl":
		return DecodeHCL(path, src)
	case ".yaml", ".yml":
		return DecodeYAML(path, src)
	default:
		return nil, fmt.Errorf("unsupported schema format %q (want .cue, .hcl, .yaml)", ext)
	}
}
