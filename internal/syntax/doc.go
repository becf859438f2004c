// Package syntax is the filter language front end.
//
// Parse turns filter text such as
//
//	WHERE manufacturer = 'Ford' AND (price < 20000 OR model STARTS WITH 'F%')
//
// into a tree of parent-linked Nodes. The tree is syntax only: attribute
// names and literal parameters are kept as raw text and carry no types.
// Walk delivers the nodes post-order, each one after all its descendants,
// which is the event stream the assembler consumes.
package syntax
