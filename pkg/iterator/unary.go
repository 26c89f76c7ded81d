package iterator

import (
	"errors"
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/tuple"
)

// UnaryOperator provides a base implementation for operators with a single child.
// It combines BaseIterator's caching logic with child operator management,
// eliminating boilerplate code in Insert, Delete, Aggregate and similar operators.
//
// UnaryOperator handles:
// - Opening/closing the child operator
// - Delegating HasNext/Next to BaseIterator
// - Providing FetchNext helper for reading from child
// - Managing rewind operations
// - Exposing and replacing the child for plan rewrites
//
// Operators that embed UnaryOperator only need to implement their specific
// readNext logic and, when the schema changes, GetTupleDesc.
type UnaryOperator struct {
	base  *BaseIterator
	child DbIterator
}

// NewUnaryOperator creates a new unary operator base with the given child and read function.
// The readNextFunc should implement the operator's specific transformation logic.
func NewUnaryOperator(child DbIterator, readNextFunc ReadNextFunc) (*UnaryOperator, error) {
	if child == nil {
		return nil, dberror.IllegalState("NewUnaryOperator", "UnaryOperator", "child operator cannot be nil")
	}

	u := &UnaryOperator{
		child: child,
	}
	u.base = NewBaseIterator(readNextFunc)
	return u, nil
}

// FetchNext retrieves the next tuple from the child operator.
// Returns the tuple if available, nil if no more tuples, or error.
// Handles all the HasNext/Next ceremony internally.
func (u *UnaryOperator) FetchNext() (*tuple.Tuple, error) {
	hasNext, err := u.child.HasNext()
	if err != nil {
		return nil, fmt.Errorf("error checking if child has next: %w", err)
	}

	if !hasNext {
		return nil, nil
	}

	childTuple, err := u.child.Next()
	if err != nil {
		return nil, fmt.Errorf("error getting next tuple from child: %w", err)
	}

	return childTuple, nil
}

// Open opens the child operator and marks this operator as ready.
func (u *UnaryOperator) Open() error {
	if u.base.IsOpen() {
		return dberror.IllegalState("Open", "UnaryOperator", "operator already opened")
	}
	if err := u.child.Open(); err != nil {
		return fmt.Errorf("failed to open child operator: %w", err)
	}
	u.base.MarkOpened()
	return nil
}

// Close closes the child operator and releases resources.
func (u *UnaryOperator) Close() error {
	if !u.base.IsOpen() {
		return dberror.IllegalState("Close", "UnaryOperator", "operator not opened")
	}
	childErr := u.child.Close()
	return errors.Join(childErr, u.base.Close())
}

// Rewind resets both the child operator and the base iterator cache.
func (u *UnaryOperator) Rewind() error {
	if !u.base.IsOpen() {
		return dberror.IllegalState("Rewind", "UnaryOperator", "operator not opened")
	}
	if err := u.child.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind child operator: %w", err)
	}
	return u.base.Rewind()
}

// GetTupleDesc returns the child's tuple description.
// Operators that transform the schema should override this method.
func (u *UnaryOperator) GetTupleDesc() *tuple.TupleDescription {
	return u.child.GetTupleDesc()
}

// HasNext checks if there are more tuples available.
func (u *UnaryOperator) HasNext() (bool, error) {
	return u.base.HasNext()
}

// Next returns the next tuple from the operator.
func (u *UnaryOperator) Next() (*tuple.Tuple, error) {
	return u.base.Next()
}

// IsOpen reports whether the operator is open.
func (u *UnaryOperator) IsOpen() bool {
	return u.base.IsOpen()
}

// GetChild returns the child operator.
func (u *UnaryOperator) GetChild() DbIterator {
	return u.child
}

// Children returns a one-element list holding the child.
func (u *UnaryOperator) Children() []DbIterator {
	return []DbIterator{u.child}
}

// SetChildren replaces the child. Exactly one non-nil child is required and
// the operator must not be open.
func (u *UnaryOperator) SetChildren(children []DbIterator) error {
	if u.base.IsOpen() {
		return dberror.IllegalState("SetChildren", "UnaryOperator", "cannot replace children while open")
	}
	if len(children) != 1 || children[0] == nil {
		return dberror.IllegalState("SetChildren", "UnaryOperator", "expected exactly 1 child, got %d", len(children))
	}
	u.child = children[0]
	return nil
}
