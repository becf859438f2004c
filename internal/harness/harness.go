package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/filterql/internal/filter"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/store"
	"github.com/roach88/filterql/internal/testutil"
)

// fixtureTable is the item table scenario rows are loaded into.
const fixtureTable = "items"

// Harness is the test execution engine.
// It runs scenario cases with a deterministic parse ID.
type Harness struct {
	store  *store.Store
	parser *filter.Parser
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A fixed parse ID keeps the parse log reproducible.
//
// Execution flow:
// 1. Load the schema
// 2. Create a fresh in-memory database and load fixture rows
// 3. Parse each case, comparing rendering, error code, and matched ids
// 4. Return result with pass/fail, per-case outcomes, and errors
//
// An error is returned only when the scenario cannot run at all; case
// mismatches are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	reg, err := schema.LoadFile(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	parser := filter.NewParser(reg,
		filter.WithLogger(logger),
		filter.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.ParseID)),
	)
	h := &Harness{
		store:  st,
		parser: parser,
		logger: logger,
	}

	hasRows := len(scenario.Rows) > 0
	if hasRows {
		if err := h.loadRows(ctx, reg, scenario.Rows); err != nil {
			return nil, fmt.Errorf("failed to load rows: %w", err)
		}
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c, hasRows)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		result.Cases = append(result.Cases, cr)
		for _, msg := range compareCase(c, cr, hasRows) {
			result.AddError(fmt.Sprintf("cases[%d] %q: %s", i, c.Filter, msg))
		}
	}

	return result, nil
}

func (h *Harness) loadRows(ctx context.Context, reg *schema.Registry, rows []map[string]any) error {
	if err := h.store.CreateItems(ctx, fixtureTable, reg.Attributes()); err != nil {
		return err
	}

	items := make([]store.Item, 0, len(rows))
	for i, row := range rows {
		id, ok := store.ItemID(row["id"])
		if !ok {
			return fmt.Errorf("rows[%d]: id must be an integer, got %T", i, row["id"])
		}
		values := make(map[string]any, len(row))
		for k, v := range row {
			if k != "id" {
				values[k] = v
			}
		}
		items = append(items, store.Item{ID: id, Values: values})
	}
	return h.store.InsertItems(ctx, fixtureTable, reg, items)
}

// runCase parses one filter and records what happened. Rejections are
// outcomes, not errors; only store failures abort.
func (h *Harness) runCase(ctx context.Context, c Case, hasRows bool) (CaseResult, error) {
	cr := CaseResult{Filter: c.Filter}

	res, err := h.parser.Parse(ctx, c.Filter)
	if err != nil {
		cr.Error = filter.ErrorCode(err)
		if cr.Error == "" {
			return cr, err
		}
		h.logger.Debug("case rejected", "filter", c.Filter, "code", cr.Error)
		return cr, nil
	}

	cr.Kind = queryir.KindOf(res.Query)
	cr.Query = queryir.Format(res.Query)
	fp, err := queryir.Fingerprint(res.Query)
	if err != nil {
		return cr, fmt.Errorf("fingerprint: %w", err)
	}
	cr.Fingerprint = fp

	if hasRows {
		ids, err := h.store.SelectIDs(ctx, fixtureTable, res.Query)
		if err != nil {
			return cr, err
		}
		cr.IDs = ids
	}
	return cr, nil
}

// compareCase returns one message per expectation cr fails.
func compareCase(c Case, cr CaseResult, hasRows bool) []string {
	var msgs []string

	if c.Expect.Error != "" {
		switch {
		case !cr.Rejected():
			msgs = append(msgs, fmt.Sprintf("expected error %s, got query %q", c.Expect.Error, cr.Query))
		case cr.Error != c.Expect.Error:
			msgs = append(msgs, fmt.Sprintf("expected error %s, got %s", c.Expect.Error, cr.Error))
		}
		return msgs
	}

	if cr.Rejected() {
		return append(msgs, fmt.Sprintf("expected query %q, got error %s", *c.Expect.Query, cr.Error))
	}
	if cr.Query != *c.Expect.Query {
		msgs = append(msgs, fmt.Sprintf("expected query %q, got %q", *c.Expect.Query, cr.Query))
	}
	if hasRows {
		want := c.Expect.IDs
		if want == nil {
			want = []int64{}
		}
		if !slices.Equal(cr.IDs, want) {
			msgs = append(msgs, fmt.Sprintf("expected ids %v, got %v", want, cr.IDs))
		}
	}
	return msgs
}
