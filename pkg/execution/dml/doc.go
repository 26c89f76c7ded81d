// Package dml provides the Insert and Delete operators.
//
// Both are unary operators that drain their child on the first pull, apply
// one mutation per child tuple through the storage interface and emit a single
// one-column INT tuple holding the number of affected rows. The mutation runs
// at most once per operator: later pulls, Rewind and re-Open report an
// exhausted stream instead of mutating again.
//
// The first failing mutation stops the drain and is returned. Tuples mutated
// before the failure stay mutated; undoing them is the transaction's job.
package dml
