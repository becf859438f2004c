package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

var (
	attrName         = schema.NewAttribute("name", schema.TypeString)
	attrManufacturer = schema.NewAttribute("manufacturer", schema.TypeString)
	attrPrice        = schema.NewAttribute("price", schema.TypeInt)
	attrDoors        = schema.NewAttribute("doors", schema.TypeInt)
	attrSold         = schema.NewAttribute("sold", schema.TypeBool)
	// vin is text but deliberately not orderable.
	attrVIN = schema.Attribute{Name: "vin", Type: schema.TypeString, Caps: schema.TextValued}
)

func testRegistry() *schema.Registry {
	return schema.NewRegistry(attrName, attrManufacturer, attrPrice, attrDoors, attrSold, attrVIN)
}

// assembleText parses src and assembles it against the test registry.
func assembleText(t *testing.T, src string) (queryir.Query, error) {
	t.Helper()
	root, err := syntax.Parse(src)
	require.NoError(t, err, "parse %q", src)
	return Assemble(root, testRegistry(), schema.DefaultParsers())
}

func mustAssemble(t *testing.T, src string) queryir.Query {
	t.Helper()
	q, err := assembleText(t, src)
	require.NoError(t, err, "assemble %q", src)
	return q
}

// node builds a syntax node and links its children's parent pointers,
// for trees the parser would never produce.
func node(kind syntax.NodeKind, text string, children ...*syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: kind, Text: text, Children: children}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

func equalNode(attr, value string) *syntax.Node {
	return node(syntax.NodeEqual, "",
		node(syntax.NodeAttributeName, attr),
		node(syntax.NodeParameter, value),
	)
}
