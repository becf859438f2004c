package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/assemble"
	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/store"
	"github.com/roach88/filterql/internal/syntax"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Schema string // schema file (.cue, .hcl, .yaml)
	DB     string // optional database to record the parse in
}

// ParseOutput is the JSON payload of an accepted filter.
type ParseOutput struct {
	Filter      string      `json:"filter"`
	Query       string      `json:"query"`
	Kind        string      `json:"kind"`
	Fingerprint string      `json:"fingerprint"`
	Nodes       int         `json:"nodes"`
	Tree        ir.IRObject `json:"tree"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <filter>",
		Short: "Parse a filter into a query tree",
		Long: `Parse a filter expression against a schema and print the assembled
query tree in canonical form with its fingerprint.

Exit codes:
  0 - Filter accepted
  1 - Filter rejected (the error code names the reason)
  2 - Command error (schema not found, etc.)

Examples:
  filterql parse --schema cars.cue "price < 10 AND HAS vin"
  filterql parse --schema cars.yaml --format json "name STARTS WITH 'Fo%'"
  filterql parse --schema cars.hcl --db parses.db "doors IN (3, 5)"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "schema file (required)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the parse in this database")

	return cmd
}

func runParse(opts *ParseOptions, text string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	reg, err := loadSchema(f, opts.Schema)
	if err != nil {
		return err
	}

	var st *store.Store
	if opts.DB != "" {
		if st, err = openStore(f, opts.DB); err != nil {
			return err
		}
		defer st.Close()
	}

	parser := filter.NewParser(reg, filter.WithLogger(f.Logger()))
	res, err := parser.Parse(cmd.Context(), text)
	if err != nil {
		code := filter.ErrorCode(err)
		if code == "" {
			f.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "parse failed", err)
		}
		id := filter.ParseID(err)
		if st != nil {
			rec := store.ParseRecord{ID: id, Filter: text, Code: code}
			if werr := st.WriteParse(cmd.Context(), rec); werr != nil {
				f.Error(ErrCodeStore, werr.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to record parse", werr)
			}
		}
		f.ErrorWithTrace(code, rejectionMessage(err), rejectionDetails(err), id)
		return WrapExitError(ExitFailure, "filter rejected", err)
	}

	out, err := describe(res)
	if err != nil {
		f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to encode query", err)
	}

	if st != nil {
		rec := store.ParseRecord{ID: res.ID, Filter: text, Query: out.Query, Fingerprint: out.Fingerprint}
		if err := st.WriteParse(cmd.Context(), rec); err != nil {
			f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record parse", err)
		}
		f.VerboseLog("Recorded parse %s in %s", res.ID, opts.DB)
	}

	if opts.Format == "json" {
		return f.SuccessWithTrace(out, res.ID)
	}
	return f.Success(formatParseText(out))
}

func describe(res *filter.Result) (ParseOutput, error) {
	tree, err := queryir.ToIR(res.Query)
	if err != nil {
		return ParseOutput{}, err
	}
	fp, err := queryir.Fingerprint(res.Query)
	if err != nil {
		return ParseOutput{}, err
	}
	return ParseOutput{
		Filter:      res.Filter,
		Query:       queryir.Format(res.Query),
		Kind:        queryir.KindOf(res.Query),
		Fingerprint: fp,
		Nodes:       res.Nodes,
		Tree:        tree,
	}, nil
}

func formatParseText(out ParseOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "query:       %s\n", out.Query)
	fmt.Fprintf(&b, "kind:        %s\n", out.Kind)
	fmt.Fprintf(&b, "fingerprint: %s", out.Fingerprint)
	return b.String()
}

// rejectionMessage strips the parse ID prefix; the ID is reported
// separately as the trace ID.
func rejectionMessage(err error) string {
	var rej *filter.RejectError
	if errors.As(err, &rej) {
		return rej.Err.Error()
	}
	return err.Error()
}

func rejectionDetails(err error) map[string]string {
	var se *syntax.SyntaxError
	if errors.As(err, &se) {
		return map[string]string{"position": se.Pos.String()}
	}

	var fe *assemble.FilterError
	if !errors.As(err, &fe) {
		return nil
	}
	details := map[string]string{"position": fe.Pos.String()}
	if fe.Attribute != "" {
		details["attribute"] = fe.Attribute
	}
	if fe.Operator != "" {
		details["operator"] = fe.Operator
	}
	if fe.Token != "" {
		details["token"] = fe.Token
	}
	for k, v := range fe.Details {
		details[k] = v
	}
	return details
}
