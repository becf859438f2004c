package assemble

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// withHandler returns a copy of the builder table with kind replaced, or
// removed when h is nil.
func withHandler(kind syntax.NodeKind, h handler) map[syntax.NodeKind]handler {
	table := maps.Clone(builders)
	if h == nil {
		delete(table, kind)
	} else {
		table[kind] = h
	}
	return table
}

func assembleWith(t *testing.T, handlers map[syntax.NodeKind]handler, src string) (queryir.Query, error) {
	t.Helper()
	root, err := syntax.Parse(src)
	require.NoError(t, err)
	a := newAssembler(testRegistry(), schema.DefaultParsers(), handlers)
	if err := syntax.Walk(root, a); err != nil {
		return nil, err
	}
	return a.Result()
}

func TestCompleteness_EveryKindHasABuilder(t *testing.T) {
	for kind := syntax.NodeFilter; kind <= syntax.NodeParameter; kind++ {
		_, ok := builders[kind]
		assert.Equal(t, kind.IsQuery(), ok, kind.String())
	}
}

func TestCompleteness_UnregisteredResult(t *testing.T) {
	silent := func(a *Assembler, n *syntax.Node) error {
		return nil
	}

	_, err := assembleWith(t, withHandler(syntax.NodeHas, silent), "price = 1 AND HAS name")
	require.Error(t, err)
	assert.True(t, IsInternalInconsistency(err))
	assert.Contains(t, err.Error(), "2 query nodes completed but 1 were registered")
}

func TestCompleteness_DoubleRegistration(t *testing.T) {
	twice := func(a *Assembler, n *syntax.Node) error {
		q := queryir.Has{Attribute: attrName}
		a.emit(n, q)
		a.emit(n, q)
		return nil
	}

	_, err := assembleWith(t, withHandler(syntax.NodeHas, twice), "HAS name")
	require.Error(t, err)
	assert.True(t, IsInternalInconsistency(err))

	var fe *FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "1", fe.Details["observed"])
	assert.Equal(t, "2", fe.Details["registered"])
}

func TestCompleteness_MissingBuilder(t *testing.T) {
	_, err := assembleWith(t, withHandler(syntax.NodeContains, nil), "name CONTAINS '%a%'")
	require.Error(t, err)
	assert.True(t, IsInternalInconsistency(err))
	assert.Contains(t, err.Error(), "no builder for Contains nodes")
}

func TestCompleteness_CounterCheck(t *testing.T) {
	var c completeness
	assert.NoError(t, c.check())

	c.observe()
	assert.Error(t, c.check())

	c.register()
	assert.NoError(t, c.check())
}

func TestStripPattern(t *testing.T) {
	assert.Equal(t, "Jo", stripPattern(syntax.NodeStartsWith, "Jo%"))
	assert.Equal(t, "Jo%", stripPattern(syntax.NodeStartsWith, "Jo%%"))
	assert.Equal(t, "son", stripPattern(syntax.NodeEndsWith, "%son"))
	assert.Equal(t, "oh", stripPattern(syntax.NodeContains, "%oh%"))
	assert.Equal(t, "", stripPattern(syntax.NodeContains, "%%"))
	assert.Equal(t, "x%", stripPattern(syntax.NodeEqual, "x%"))
}
