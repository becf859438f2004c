package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/store"
)

// loadSchema loads a schema file, reporting failures through f.
// A missing file is a command error; a bad schema is a failure.
func loadSchema(f *OutputFormatter, path string) (*schema.Registry, error) {
	if path == "" {
		f.Error(ErrCodeGeneric, "--schema is required", nil)
		return nil, NewExitError(ExitCommandError, "--schema is required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		msg := fmt.Sprintf("schema file not found: %s", path)
		f.Error(ErrCodeNotFound, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	reg, err := schema.LoadFile(path)
	if err != nil {
		var details map[string]string
		var le *schema.LoadError
		if errors.As(err, &le) {
			details = map[string]string{"field": le.Field}
		}
		f.Error(ErrCodeSchema, err.Error(), details)
		return nil, WrapExitError(ExitFailure, "invalid schema", err)
	}

	f.VerboseLog("Loaded %d attribute(s) from %s", reg.Len(), path)
	return reg, nil
}

// openStore opens the database at path, reporting failures through f.
func openStore(f *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path, store.WithLogger(f.Logger()))
	if err != nil {
		f.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
