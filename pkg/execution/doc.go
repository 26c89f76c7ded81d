// Package execution holds the physical operators of the query core.
//
// Every operator implements iterator.DbIterator and pulls tuples from its
// children one at a time. Operators are composed into a tree by their
// constructors and rewired with SetChildren.
//
// # Sub-packages
//
//   - [querycore/pkg/execution/aggregation] – grouped MIN, MAX, SUM, AVG and
//     COUNT over one child.
//   - [querycore/pkg/execution/dml]         – Insert and Delete, which drain
//     their child into a store and return a single count tuple.
//
// Filter lives in this package and is the usual child of an aggregate.
package execution
