package primitives

import (
	"fmt"
	"math"
)

// HashCode represents a hash value (e.g., for fields or group keys).
type HashCode uint64

// TableID identifies a table known to the catalog.
type TableID uint64

// ColumnID identifies a column within a tuple description.
type ColumnID uint32

// Sentinel values for invalid/unset identifiers
const (
	// InvalidTableID represents an invalid or unset table ID
	InvalidTableID TableID = 0

	InvalidColumnID ColumnID = math.MaxUint32
)

// IsValid reports whether the TableID is a non-zero identifier.
func (t TableID) IsValid() bool {
	return t != InvalidTableID
}

// String returns a string representation of the TableID.
func (t TableID) String() string {
	return fmt.Sprintf("TableID(%d)", t)
}
