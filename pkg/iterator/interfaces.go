package iterator

import "querycore/pkg/tuple"

// TupleIterator is the pull half of the protocol, shared by every operator
// and by the drain helpers in this package.
type TupleIterator interface {
	// HasNext reports whether another tuple is available without consuming it.
	// Returns ILLEGAL_STATE when the iterator is not open.
	HasNext() (bool, error)

	// Next returns the next tuple and advances. Returns NO_SUCH_ELEMENT on an
	// unopened or exhausted iterator, and keeps doing so until Rewind.
	Next() (*tuple.Tuple, error)
}

// DbIterator defines the contract for all physical operators in the execution engine.
// Operators form a tree; the root is driven by a single caller pulling Next.
type DbIterator interface {
	TupleIterator // Embeds HasNext() and Next()

	// Open initializes the iterator and recursively opens its children.
	// Opening an iterator that is already open is ILLEGAL_STATE. If a child
	// fails to open the operator stays closed and the error is returned.
	Open() error

	// Rewind returns to the state immediately after Open.
	// The iterator must be open.
	Rewind() error

	// Close releases resources and recursively closes children. It is safe to
	// call mid-iteration. Closing an iterator that is not open is ILLEGAL_STATE.
	Close() error

	// GetTupleDesc returns the schema of the tuples produced by Next.
	// It can be called regardless of iterator state.
	GetTupleDesc() *tuple.TupleDescription

	// Children returns the direct child operators. The arity is fixed per
	// operator: zero for leaves, one for unary operators.
	Children() []DbIterator

	// SetChildren replaces the direct children, enabling plan rewrites.
	// A list of the wrong arity, or a call while open, is ILLEGAL_STATE.
	SetChildren(children []DbIterator) error
}
