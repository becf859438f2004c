package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/ir"
)

func strPtr(s string) *string {
	return &s
}

func TestRun_Testdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Cases, len(scenario.Cases))
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, `
name: mismatches
description: "Every expectation wrong"
schema: schema.yaml
rows:
  - {id: 1, name: Ford, price: 100}
  - {id: 2, name: Kia, price: 300}
cases:
  - filter: "price < 200"
    expect:
      query: "price < 100"
      ids: [2]
  - filter: "price < 200"
    expect:
      error: SYNTAX
  - filter: "colour = 1"
    expect:
      error: SYNTAX
  - filter: "colour = 1"
    expect:
      query: "colour = 1"
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		`cases[0] "price < 200": expected query "price < 100", got "price < 200"`,
		`cases[0] "price < 200": expected ids [2], got [1]`,
		`cases[1] "price < 200": expected error SYNTAX, got query "price < 200"`,
		`cases[2] "colour = 1": expected error SYNTAX, got UNKNOWN_ATTRIBUTE`,
		`cases[3] "colour = 1": expected query "colour = 1", got error UNKNOWN_ATTRIBUTE`,
	}, result.Errors)
}

func TestRun_CaseResults(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, `
name: results
description: "Case results carry kind, fingerprint, and ids"
schema: schema.yaml
rows:
  - {id: 7, name: Ford}
cases:
  - filter: "HAS price"
    expect:
      query: "HAS price"
  - filter: "(HAS price)"
    expect:
      query: "HAS price"
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	first, second := result.Cases[0], result.Cases[1]
	assert.Equal(t, "Has", first.Kind)
	assert.Len(t, first.Fingerprint, 64)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, []int64{}, first.IDs)
	assert.False(t, first.Rejected())
}

func TestRun_Errors(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		_, err := Run(&Scenario{Name: "x", Schema: "/nonexistent/schema.yaml", Cases: []Case{{Filter: "", Expect: Expect{Query: strPtr("")}}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load schema")
	})

	t.Run("row value", func(t *testing.T) {
		scenario, err := LoadScenario(writeScenario(t, `
name: bad_rows
description: "Row value of the wrong type"
schema: schema.yaml
rows:
  - {id: 1, price: cheap}
cases:
  - filter: ""
    expect:
      query: ""
`))
		require.NoError(t, err)

		_, err = Run(scenario)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load rows")
		assert.Contains(t, err.Error(), `attribute "price" wants int, got string`)
	})

	t.Run("row id", func(t *testing.T) {
		scenario, err := LoadScenario(writeScenario(t, `
name: bad_id
description: "Non-integer row id"
schema: schema.yaml
rows:
  - {id: one}
cases:
  - filter: ""
    expect:
      query: ""
`))
		require.NoError(t, err)

		_, err = Run(scenario)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows[0]: id must be an integer, got string")
	})
}

func TestSnapshot(t *testing.T) {
	result := &Result{Cases: []CaseResult{
		{Filter: "", Kind: "All", Query: ""},
		{Filter: "x", Error: "SYNTAX"},
		{Filter: "HAS a", Kind: "Has", Query: "HAS a", IDs: []int64{}},
	}}

	snap := Snapshot("s", result)
	assert.Equal(t, `{"cases":[{"filter":"","kind":"All","query":""},{"error":"SYNTAX","filter":"x"},{"filter":"HAS a","ids":[],"kind":"Has","query":"HAS a"}],"scenario":"s"}`,
		string(mustCanonical(t, snap)))
}

func mustCanonical(t *testing.T, v ir.IRValue) []byte {
	t.Helper()
	data, err := ir.MarshalCanonical(v)
	require.NoError(t, err)
	return data
}
