package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	DB          string
	Fingerprint string
}

// LogEntry is one parse log entry in command output.
type LogEntry struct {
	Seq         int64  `json:"seq"`
	ID          string `json:"id"`
	Filter      string `json:"filter"`
	Query       string `json:"query,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Code        string `json:"code,omitempty"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show parses recorded with parse --db",
		Long: `List the parse log of a database in write order.

With --fingerprint, list only the accepted parses whose query tree has
that fingerprint: every filter text that means the same query.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "database path (required)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "only parses with this fingerprint")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(f, opts.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	var records []store.ParseRecord
	if opts.Fingerprint != "" {
		records, err = st.ReadParsesByFingerprint(cmd.Context(), opts.Fingerprint)
	} else {
		records, err = st.ReadParses(cmd.Context())
	}
	if err != nil {
		f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read parse log", err)
	}

	entries := make([]LogEntry, len(records))
	for i, rec := range records {
		entries[i] = LogEntry(rec)
	}

	if opts.Format == "json" {
		return f.Success(entries)
	}
	if len(entries) == 0 {
		return f.Success("No parses recorded.")
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		outcome := e.Query
		if e.Code != "" {
			outcome = e.Code
		}
		fmt.Fprintf(&b, "%d %s %q => %s", e.Seq, e.ID, e.Filter, outcome)
	}
	return f.Success(b.String())
}
