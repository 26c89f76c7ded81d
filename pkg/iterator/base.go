package iterator

import (
	dberror "querycore/pkg/error"
	"querycore/pkg/tuple"
)

// ReadNextFunc is the function signature for reading the next tuple from an iterator.
// Returns:
//   - *tuple.Tuple: Next tuple from the data source, or nil if no more tuples
//   - error: Error if reading fails, nil on success or end of data
type ReadNextFunc func() (*tuple.Tuple, error)

// BaseIterator implements the caching logic and state management for database iterators.
// It provides a common foundation for all iterator implementations in the execution engine,
// handling tuple caching, open/close state, and delegation to specific read functions.
//
// Once readNextFunc reports the end of data the iterator is exhausted: it is
// not called again until Rewind or a fresh Open.
type BaseIterator struct {
	nextTuple    *tuple.Tuple // Cached next tuple for lookahead operations
	opened       bool         // Flag indicating if the iterator has been opened
	exhausted    bool         // Set once readNextFunc returned nil
	readNextFunc ReadNextFunc // Function to read the next tuple from the underlying source
}

// NewBaseIterator creates a new base iterator with the given readNext function.
// The iterator starts in a closed state and must be opened before use.
func NewBaseIterator(readNextFunc ReadNextFunc) *BaseIterator {
	return &BaseIterator{
		readNextFunc: readNextFunc,
	}
}

// Open marks the iterator as opened. Opening twice is ILLEGAL_STATE.
func (it *BaseIterator) Open() error {
	if it.opened {
		return dberror.IllegalState("Open", "BaseIterator", "iterator already opened")
	}
	it.MarkOpened()
	return nil
}

// HasNext checks if there is a next tuple available without consuming it.
// This method implements lookahead by caching the next tuple if not already cached.
func (it *BaseIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, dberror.IllegalState("HasNext", "BaseIterator", "iterator not opened")
	}

	if it.nextTuple != nil {
		return true, nil
	}
	if it.exhausted {
		return false, nil
	}

	next, err := it.readNextFunc()
	if err != nil {
		return false, err
	}
	if next == nil {
		it.exhausted = true
		return false, nil
	}

	it.nextTuple = next
	return true, nil
}

// Next returns the next tuple from the iterator and advances the iterator position.
// If a tuple was previously cached by HasNext(), it returns that tuple and clears the cache.
func (it *BaseIterator) Next() (*tuple.Tuple, error) {
	if !it.opened {
		return nil, dberror.NoSuchElement("Next", "BaseIterator", "iterator not opened")
	}

	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberror.NoSuchElement("Next", "BaseIterator", "no more tuples")
	}

	result := it.nextTuple
	it.nextTuple = nil
	return result, nil
}

// Rewind drops the lookahead and clears the exhausted flag. The caller is
// responsible for resetting whatever readNextFunc reads from.
func (it *BaseIterator) Rewind() error {
	if !it.opened {
		return dberror.IllegalState("Rewind", "BaseIterator", "iterator not opened")
	}
	it.nextTuple = nil
	it.exhausted = false
	return nil
}

// Close releases resources associated with the iterator and marks it as closed.
// Closing an iterator that is not open is ILLEGAL_STATE.
func (it *BaseIterator) Close() error {
	if !it.opened {
		return dberror.IllegalState("Close", "BaseIterator", "iterator not opened")
	}
	it.nextTuple = nil
	it.exhausted = false
	it.opened = false
	return nil
}

// MarkOpened marks the iterator as opened and ready for use.
func (it *BaseIterator) MarkOpened() {
	it.opened = true
	it.exhausted = false
	it.nextTuple = nil
}

// IsOpen reports whether the iterator has been opened and not yet closed.
func (it *BaseIterator) IsOpen() bool {
	return it.opened
}
