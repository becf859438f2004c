package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/assemble"
	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/testutil"
)

var price = schema.NewAttribute("price", schema.TypeInt)

func newTestParser(buf *bytes.Buffer) *Parser {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewParser(
		schema.NewRegistry(price, schema.NewAttribute("name", schema.TypeString)),
		WithLogger(logger),
		WithIDGenerator(testutil.NewFixedIDGenerator("parse-1")),
	)
}

// logLines decodes JSON log records.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestParse_Success(t *testing.T) {
	var buf bytes.Buffer
	p := newTestParser(&buf)

	res, err := p.Parse(context.Background(), "price < 10")
	require.NoError(t, err)
	assert.Equal(t, "parse-1", res.ID)
	assert.Equal(t, "price < 10", res.Filter)
	assert.Equal(t, queryir.LessThan{Attribute: price, Value: ir.IRInt(10)}, res.Query)
	assert.Equal(t, 4, res.Nodes)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, "filter parsed", lines[0]["msg"])
	assert.Equal(t, "parse-1", lines[0]["parse_id"])
	assert.Equal(t, float64(4), lines[0]["nodes"])
	assert.Equal(t, "LessThan", lines[0]["kind"])
}

func TestParse_Empty(t *testing.T) {
	var buf bytes.Buffer
	res, err := newTestParser(&buf).Parse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, queryir.All{}, res.Query)
	assert.Equal(t, 1, res.Nodes)
}

func TestParse_RejectionsAreLogged(t *testing.T) {
	tests := []struct {
		src  string
		code string
	}{
		{"price <", CodeSyntax},
		{"colour = 1", string(assemble.ErrCodeUnknownAttribute)},
		{"price IN ()", string(assemble.ErrCodeArity)},
		{"name > 5", string(assemble.ErrCodeValueParse)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := newTestParser(&buf).Parse(context.Background(), tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrorCode(err))
			assert.Contains(t, err.Error(), "parse parse-1: ")
			assert.Equal(t, "parse-1", ParseID(err))

			var rej *RejectError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.src, rej.Filter)

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "WARN", lines[0]["level"])
			assert.Equal(t, tt.code, lines[0]["code"])
		})
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := newTestParser(&buf).Parse(ctx, "price = 1")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "", ErrorCode(err))
	assert.Equal(t, "", ParseID(err))
	assert.Empty(t, buf.String())
}

func TestParse_DefaultIDsAreUUIDv7(t *testing.T) {
	p := NewParser(schema.NewRegistry(price))
	res, err := p.Parse(context.Background(), "price = 1")
	require.NoError(t, err)

	id, err := uuid.Parse(res.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestParse_ConcurrentUse(t *testing.T) {
	p := NewParser(schema.NewRegistry(price), WithIDGenerator(testutil.NewSequenceIDGenerator("p")))
	want := queryir.NewIn(price, ir.IRInt(1), ir.IRInt(2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				res, err := p.Parse(context.Background(), "price IN (1, 2)")
				if assert.NoError(t, err) {
					assert.Equal(t, want, res.Query)
				}
			}
		}()
	}
	wg.Wait()
}
