package syntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkPostOrder(t *testing.T) {
	root, err := Parse("a = 1 AND NOT b = 2")
	require.NoError(t, err)

	var order []string
	err = Walk(root, ListenerFunc(func(n *Node) error {
		order = append(order, n.Kind.String())
		return nil
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"AttributeName", "Parameter", "Equal",
		"AttributeName", "Parameter", "Equal", "Not",
		"And", "Filter",
	}, order)
}

func TestWalkChildrenBeforeParent(t *testing.T) {
	root, err := Parse("(a = 1 OR b IN (1, 2)) AND c BETWEEN 1 AND 2")
	require.NoError(t, err)

	exited := map[*Node]bool{}
	err = Walk(root, ListenerFunc(func(n *Node) error {
		assert.False(t, exited[n], "node visited twice")
		for _, c := range n.Children {
			assert.True(t, exited[c], "child of %s not yet exited", n.Kind)
		}
		exited[n] = true
		return nil
	}))
	require.NoError(t, err)
	assert.Len(t, exited, root.Count())
}

func TestWalkStopsOnError(t *testing.T) {
	root, err := Parse("a = 1 AND b = 2")
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = Walk(root, ListenerFunc(func(n *Node) error {
		calls++
		if n.Kind == NodeEqual {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestWalkNil(t *testing.T) {
	assert.NoError(t, Walk(nil, ListenerFunc(func(*Node) error {
		t.Fatal("unexpected call")
		return nil
	})))
}
