// Package filter is the entry point for turning filter text into a query
// tree.
//
// A Parser binds an attribute resolver and value parsers once and can then
// be shared across goroutines; each Parse call lexes, parses, and assembles
// with its own state.
//
//	reg, _ := schema.DecodeYAML("cars.yaml", src)
//	p := filter.NewParser(reg, filter.WithLogger(logger))
//	res, err := p.Parse(ctx, "manufacturer = 'Ford' AND price < 20000")
//
// Errors are *syntax.SyntaxError for malformed text and *assemble.FilterError
// for everything detected while assembling; ErrorCode names both.
package filter
