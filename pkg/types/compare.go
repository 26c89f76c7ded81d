package types

import (
	"cmp"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
)

// compareOrdered performs a comparison between two ordered values using the given predicate.
func compareOrdered[T cmp.Ordered](a, b T, op primitives.Predicate) bool {
	switch op {
	case primitives.Equals:
		return a == b
	case primitives.LessThan:
		return a < b
	case primitives.GreaterThan:
		return a > b
	case primitives.LessThanOrEqual:
		return a <= b
	case primitives.GreaterThanOrEqual:
		return a >= b
	case primitives.NotEqual:
		return a != b
	default:
		return false
	}
}

func mismatch(self, other Field) error {
	if other == nil {
		return dberror.SchemaMismatch("Compare", "Field", "cannot compare %s with nil", self.Type())
	}
	return dberror.SchemaMismatch("Compare", "Field", "cannot compare %s with %s", self.Type(), other.Type())
}
