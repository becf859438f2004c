package assemble

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

func TestAssemble_Trees(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want queryir.Query
	}{
		{"empty", "", queryir.All{}},
		{"whitespace", "  \n ", queryir.All{}},
		{
			"conjunction",
			`price = 5 AND name = "x"`,
			queryir.NewAnd(
				queryir.Equal{Attribute: attrPrice, Value: ir.IRInt(5)},
				queryir.Equal{Attribute: attrName, Value: ir.IRString("x")},
			),
		},
		{
			"negated group",
			"NOT (price > 1 AND doors < 2)",
			queryir.Not{Child: queryir.NewAnd(
				queryir.GreaterThan{Attribute: attrPrice, Value: ir.IRInt(1)},
				queryir.LessThan{Attribute: attrDoors, Value: ir.IRInt(2)},
			)},
		},
		{
			"groups are transparent",
			"((price = 1))",
			queryir.Equal{Attribute: attrPrice, Value: ir.IRInt(1)},
		},
		{
			"nested combinators keep source order",
			"(name = 'a' OR name = 'b') AND (doors >= 2 OR NOT sold = true) AND HAS vin",
			queryir.NewAnd(
				queryir.NewOr(
					queryir.Equal{Attribute: attrName, Value: ir.IRString("a")},
					queryir.Equal{Attribute: attrName, Value: ir.IRString("b")},
				),
				queryir.NewOr(
					queryir.GreaterThanOrEqual{Attribute: attrDoors, Value: ir.IRInt(2)},
					queryir.Not{Child: queryir.Equal{Attribute: attrSold, Value: ir.IRBool(true)}},
				),
				queryir.Has{Attribute: attrVIN},
			),
		},
		{
			"explicit nesting is preserved",
			"(price = 1 AND doors = 2) AND sold = false",
			queryir.NewAnd(
				queryir.NewAnd(
					queryir.Equal{Attribute: attrPrice, Value: ir.IRInt(1)},
					queryir.Equal{Attribute: attrDoors, Value: ir.IRInt(2)},
				),
				queryir.Equal{Attribute: attrSold, Value: ir.IRBool(false)},
			),
		},
		{
			"double negation",
			"NOT NOT HAS name",
			queryir.Not{Child: queryir.Not{Child: queryir.Has{Attribute: attrName}}},
		},
		{"less or equal", "price <= 7", queryir.LessThanOrEqual{Attribute: attrPrice, Value: ir.IRInt(7)}},
		{"string ordering", "name < 'm'", queryir.LessThan{Attribute: attrName, Value: ir.IRString("m")}},
		{
			"between",
			"price BETWEEN 1 AND 10",
			queryir.Between{Attribute: attrPrice, Lower: ir.IRInt(1), Upper: ir.IRInt(10)},
		},
		{
			"not between",
			"price NOT BETWEEN 1 AND 10",
			queryir.Not{Child: queryir.Between{Attribute: attrPrice, Lower: ir.IRInt(1), Upper: ir.IRInt(10)}},
		},
		{
			"in keeps order and duplicates",
			"doors IN (3, 1, 2, 1)",
			queryir.NewIn(attrDoors, ir.IRInt(3), ir.IRInt(1), ir.IRInt(2), ir.IRInt(1)),
		},
		{
			"not in",
			"name NOT IN ('a')",
			queryir.Not{Child: queryir.NewIn(attrName, ir.IRString("a"))},
		},
		{
			"not equal",
			"sold != TRUE",
			queryir.Not{Child: queryir.Equal{Attribute: attrSold, Value: ir.IRBool(true)}},
		},
		{"starts with", `name STARTS WITH "Jo%"`, queryir.StartsWith{Attribute: attrName, Text: "Jo"}},
		{"ends with", "name ENDS WITH '%son'", queryir.EndsWith{Attribute: attrName, Text: "son"}},
		{"contains", "vin CONTAINS '%X7%'", queryir.Contains{Attribute: attrVIN, Text: "X7"}},
		{"contains strips one marker each side", "name CONTAINS '%%50%%'", queryir.Contains{Attribute: attrName, Text: "%50%"}},
		{"pattern unescapes quotes", "name STARTS WITH 'O''B%'", queryir.StartsWith{Attribute: attrName, Text: "O'B"}},
		{"has", "HAS sold", queryir.Has{Attribute: attrSold}},
		{"not has", "NOT HAS sold", queryir.Not{Child: queryir.Has{Attribute: attrSold}}},
		{"quoted attribute", "`price` = -3", queryir.Equal{Attribute: attrPrice, Value: ir.IRInt(-3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustAssemble(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("assembled tree mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, queryir.Validate(got).Valid)
		})
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	const src = "manufacturer IN ('Ford', 'Kia') AND (price BETWEEN 100 AND 200 OR NOT HAS vin)"

	first := mustAssemble(t, src)
	second := mustAssemble(t, src)
	assert.Empty(t, cmp.Diff(first, second))

	fp1, err := queryir.Fingerprint(first)
	require.NoError(t, err)
	fp2, err := queryir.Fingerprint(second)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestAssemble_FormatRoundTrip(t *testing.T) {
	for _, src := range []string{
		"",
		"price = 5 AND name = 'x'",
		"NOT (price > 1 AND doors < 2)",
		"(name = 'a' OR name = 'b') AND NOT HAS vin",
		"price NOT BETWEEN 1 AND 10 OR doors IN (2, 4)",
		"name STARTS WITH 'O''B%' AND vin ENDS WITH '%9' AND name CONTAINS '%x%'",
		"sold <> false",
	} {
		t.Run(src, func(t *testing.T) {
			q := mustAssemble(t, src)
			again := mustAssemble(t, queryir.Format(q))
			assert.Empty(t, cmp.Diff(q, again))
		})
	}
}

func TestAssemble_InputsNotRetained(t *testing.T) {
	root, err := syntax.Parse("doors IN (1, 2)")
	require.NoError(t, err)

	a := New(testRegistry(), schema.DefaultParsers())
	require.NoError(t, syntax.Walk(root, a))
	q, err := a.Result()
	require.NoError(t, err)

	root.Children[0].Children[1].Text = "9"
	assert.Equal(t, queryir.NewIn(attrDoors, ir.IRInt(1), ir.IRInt(2)), q)
	assert.Nil(t, a.pending)
	assert.Nil(t, a.root)
}

func TestAssemble_ResultOnce(t *testing.T) {
	a := New(testRegistry(), schema.DefaultParsers())
	require.NoError(t, syntax.Walk(equalNode("price", "1"), a))

	_, err := a.Result()
	require.NoError(t, err)

	_, err = a.Result()
	assert.True(t, IsMalformedStructure(err))

	err = a.Exit(equalNode("price", "2"))
	assert.True(t, IsMalformedStructure(err))
}

func TestAssemble_ConcurrentParses(t *testing.T) {
	reg := testRegistry()
	parsers := schema.DefaultParsers()
	root, err := syntax.Parse("price > 1 AND (name = 'a' OR doors IN (2, 4))")
	require.NoError(t, err)

	want, err := Assemble(root, reg, parsers)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := Assemble(root, reg, parsers)
				if assert.NoError(t, err) {
					assert.Empty(t, cmp.Diff(want, got))
				}
			}
		}()
	}
	wg.Wait()
}
