package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/store"
)

func TestSQLCommand_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cars.yaml", carsSchema)

	out, err := runCommand(t, "sql", "-s", path, "--table", "cars", "price < 10")
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "cars" WHERE "price" < ? ORDER BY id ASC COLLATE BINARY
params: [10]
`, out)
}

func TestSQLCommand_RunsAgainstDB(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cars.yaml", carsSchema)
	db := filepath.Join(dir, "cars.db")

	reg, err := schema.LoadFile(path)
	require.NoError(t, err)
	st, err := store.Open(db)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.CreateItems(ctx, "cars", reg.Attributes()))
	require.NoError(t, st.InsertItems(ctx, "cars", reg, []store.Item{
		{ID: 1, Values: map[string]any{"name": "Ford", "price": 100}},
		{ID: 2, Values: map[string]any{"name": "ford", "price": 200, "vin": "X"}},
	}))
	require.NoError(t, st.Close())

	out, err := runCommand(t, "--format", "json", "sql", "-s", path, "--table", "cars", "--db", db, "name = 'Ford' OR HAS vin")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   SQLOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `SELECT * FROM "cars" WHERE ("name" = ? OR "vin" IS NOT NULL) ORDER BY id ASC COLLATE BINARY`, resp.Data.SQL)
	assert.Equal(t, []any{"Ford"}, resp.Data.Params)
	assert.Equal(t, []int64{1, 2}, resp.Data.IDs)
}

func TestSQLCommand_AllFilter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cars.yaml", carsSchema)

	out, err := runCommand(t, "sql", "-s", path, "")
	require.NoError(t, err)
	assert.Contains(t, out, `SELECT * FROM "items" WHERE 1 = 1 ORDER BY id ASC COLLATE BINARY`)
	assert.Contains(t, out, "params: []")
}

func TestSQLCommand_Rejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cars.yaml", carsSchema)

	out, err := runCommand(t, "sql", "-s", path, "vin > 'A'")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [TYPE_MISMATCH]")
}

func TestSQLCommand_MissingTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cars.yaml", carsSchema)

	out, err := runCommand(t, "sql", "-s", path, "--db", filepath.Join(dir, "empty.db"), "HAS vin")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `Error [E005]: table "items" not found`)
}
