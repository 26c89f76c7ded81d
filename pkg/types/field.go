package types

import "querycore/pkg/primitives"

// Field is a single typed value inside a tuple. Implementations are immutable.
type Field interface {
	// Compare applies op between the receiver and other. Comparing fields
	// of different types is an error.
	Compare(op primitives.Predicate, other Field) (bool, error)

	Type() Type

	String() string

	// Equals reports whether other has the same type and value.
	Equals(other Field) bool

	Hash() (primitives.HashCode, error)
}
