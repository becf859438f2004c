package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/schema"
)

var (
	name  = schema.NewAttribute("name", schema.TypeString)
	price = schema.NewAttribute("price", schema.TypeInt)
	sold  = schema.NewAttribute("sold", schema.TypeBool)
)

func TestConstructorsCopyInput(t *testing.T) {
	children := []Query{Has{Attribute: name}, Has{Attribute: price}}
	and := NewAnd(children...)
	or := NewOr(children...)
	children[0] = All{}

	assert.Equal(t, Has{Attribute: name}, and.Children[0])
	assert.Equal(t, Has{Attribute: name}, or.Children[0])

	values := []ir.IRValue{ir.IRInt(1), ir.IRInt(2)}
	in := NewIn(price, values...)
	values[0] = ir.IRInt(99)
	assert.Equal(t, []ir.IRValue{ir.IRInt(1), ir.IRInt(2)}, in.Values)
}

func TestAttributeOf(t *testing.T) {
	attr, ok := AttributeOf(Between{Attribute: price, Lower: ir.IRInt(1), Upper: ir.IRInt(2)})
	assert.True(t, ok)
	assert.Equal(t, price, attr)

	_, ok = AttributeOf(NewAnd(Has{Attribute: name}))
	assert.False(t, ok)
	_, ok = AttributeOf(All{})
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "All", KindOf(All{}))
	assert.Equal(t, "Not", KindOf(Not{Child: Has{Attribute: sold}}))
	assert.Equal(t, "StartsWith", KindOf(StartsWith{Attribute: name, Text: "Jo"}))
	assert.Equal(t, "nil", KindOf(nil))
}

func TestSealedSwitch(t *testing.T) {
	var q Query = Equal{Attribute: price, Value: ir.IRInt(5)}

	switch n := q.(type) {
	case Equal:
		assert.Equal(t, ir.IRInt(5), n.Value)
	default:
		t.Fatalf("unexpected type %T", q)
	}
}
