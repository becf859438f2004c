package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/querysql"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Schema string
	Table  string
	DB     string // optional database to run the query against
}

// SQLOutput is the JSON payload of the sql command.
type SQLOutput struct {
	SQL    string  `json:"sql"`
	Params []any   `json:"params"`
	IDs    []int64 `json:"ids,omitempty"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql <filter>",
		Short: "Compile a filter to parameterized SQLite SQL",
		Long: `Compile a filter to a parameterized SQLite SELECT over an item table.

With --db, the query also runs against the table in that database and the
matching item ids are printed in id order.

Examples:
  filterql sql --schema cars.cue --table cars "price BETWEEN 100 AND 200"
  filterql sql --schema cars.cue --table cars --db cars.db "HAS vin"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "schema file (required)")
	cmd.Flags().StringVar(&opts.Table, "table", "items", "item table name")
	cmd.Flags().StringVar(&opts.DB, "db", "", "run the query against this database")

	return cmd
}

func runSQL(opts *SQLOptions, text string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	reg, err := loadSchema(f, opts.Schema)
	if err != nil {
		return err
	}

	res, err := filter.NewParser(reg, filter.WithLogger(f.Logger())).Parse(cmd.Context(), text)
	if err != nil {
		code := filter.ErrorCode(err)
		if code == "" {
			code = ErrCodeGeneric
		}
		f.ErrorWithTrace(code, rejectionMessage(err), rejectionDetails(err), filter.ParseID(err))
		return WrapExitError(ExitFailure, "filter rejected", err)
	}

	query, params, err := querysql.NewSQLCompiler().Select(opts.Table, nil, res.Query)
	if err != nil {
		f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to compile SQL", err)
	}
	out := SQLOutput{SQL: query, Params: params}
	if out.Params == nil {
		out.Params = []any{}
	}

	if opts.DB != "" {
		st, err := openStore(f, opts.DB)
		if err != nil {
			return err
		}
		defer st.Close()

		tables, err := st.Tables(cmd.Context())
		if err != nil {
			f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list tables", err)
		}
		if !slices.Contains(tables, opts.Table) {
			msg := fmt.Sprintf("table %q not found in %s", opts.Table, opts.DB)
			f.Error(ErrCodeNotFound, msg, map[string]any{"tables": tables})
			return NewExitError(ExitCommandError, msg)
		}

		ids, err := st.SelectIDs(cmd.Context(), opts.Table, res.Query)
		if err != nil {
			f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "query failed", err)
		}
		out.IDs = ids
		f.VerboseLog("Matched %d item(s) in %s", len(ids), opts.Table)
	}

	if opts.Format == "json" {
		return f.SuccessWithTrace(out, res.ID)
	}
	return f.Success(formatSQLText(out, opts.DB != ""))
}

func formatSQLText(out SQLOutput, withIDs bool) string {
	var b strings.Builder
	b.WriteString(out.SQL)
	fmt.Fprintf(&b, "\nparams: %v", out.Params)
	if withIDs {
		fmt.Fprintf(&b, "\nids: %v", out.IDs)
	}
	return b.String()
}
