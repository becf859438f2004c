package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/schema"
)

func TestFormat(t *testing.T) {
	orderDate := schema.NewAttribute("order date", schema.TypeInt)

	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"all", All{}, ""},
		{"equal string", Equal{Attribute: name, Value: ir.IRString("O'Brien")}, "name = 'O''Brien'"},
		{"less than", LessThan{Attribute: price, Value: ir.IRInt(-3)}, "price < -3"},
		{"less or equal", LessThanOrEqual{Attribute: price, Value: ir.IRInt(3)}, "price <= 3"},
		{"greater", GreaterThan{Attribute: price, Value: ir.IRInt(3)}, "price > 3"},
		{"greater or equal", GreaterThanOrEqual{Attribute: price, Value: ir.IRInt(3)}, "price >= 3"},
		{"bool", Equal{Attribute: sold, Value: ir.IRBool(true)}, "sold = true"},
		{"between", Between{Attribute: price, Lower: ir.IRInt(1), Upper: ir.IRInt(10)}, "price BETWEEN 1 AND 10"},
		{"in", NewIn(price, ir.IRInt(3), ir.IRInt(1), ir.IRInt(3)), "price IN (3, 1, 3)"},
		{"starts with", StartsWith{Attribute: name, Text: "Jo"}, "name STARTS WITH 'Jo%'"},
		{"ends with", EndsWith{Attribute: name, Text: "son"}, "name ENDS WITH '%son'"},
		{"contains", Contains{Attribute: name, Text: "oh"}, "name CONTAINS '%oh%'"},
		{"has", Has{Attribute: name}, "HAS name"},
		{"quoted attribute", Equal{Attribute: orderDate, Value: ir.IRInt(1)}, "`order date` = 1"},
		{
			"nested",
			NewAnd(
				Equal{Attribute: price, Value: ir.IRInt(5)},
				Not{Child: NewOr(Has{Attribute: name}, Equal{Attribute: sold, Value: ir.IRBool(false)})},
			),
			"(price = 5 AND NOT (HAS name OR sold = false))",
		},
		{"double not", Not{Child: Not{Child: Has{Attribute: name}}}, "NOT NOT HAS name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.q))
		})
	}
}
