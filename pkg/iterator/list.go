package iterator

import (
	dberror "querycore/pkg/error"
	"querycore/pkg/tuple"
)

// ListIterator is a leaf operator over a materialized list of tuples.
type ListIterator struct {
	base   *BaseIterator
	desc   *tuple.TupleDescription
	tuples []*tuple.Tuple
	cursor *SliceIterator[*tuple.Tuple]
}

// NewListIterator returns a leaf over tuples. Every tuple must match desc.
func NewListIterator(desc *tuple.TupleDescription, tuples []*tuple.Tuple) (*ListIterator, error) {
	if desc == nil {
		return nil, dberror.IllegalState("NewListIterator", "ListIterator", "tuple description cannot be nil")
	}
	for i, t := range tuples {
		if t == nil || !desc.Equals(t.TupleDesc) {
			return nil, dberror.SchemaMismatch("NewListIterator", "ListIterator",
				"tuple %d does not match schema %s", i, desc)
		}
	}

	l := &ListIterator{
		desc:   desc,
		tuples: tuples,
	}
	l.base = NewBaseIterator(l.readNext)
	return l, nil
}

func (l *ListIterator) readNext() (*tuple.Tuple, error) {
	if !l.cursor.HasNext() {
		return nil, nil
	}
	return l.cursor.Next()
}

func (l *ListIterator) Open() error {
	if err := l.base.Open(); err != nil {
		return err
	}
	l.cursor = NewSliceIterator(l.tuples)
	return nil
}

func (l *ListIterator) HasNext() (bool, error) {
	return l.base.HasNext()
}

func (l *ListIterator) Next() (*tuple.Tuple, error) {
	return l.base.Next()
}

func (l *ListIterator) Rewind() error {
	if err := l.base.Rewind(); err != nil {
		return err
	}
	l.cursor.Rewind()
	return nil
}

func (l *ListIterator) Close() error {
	if err := l.base.Close(); err != nil {
		return err
	}
	l.cursor = nil
	return nil
}

func (l *ListIterator) GetTupleDesc() *tuple.TupleDescription {
	return l.desc
}

func (l *ListIterator) Children() []DbIterator {
	return nil
}

func (l *ListIterator) SetChildren(children []DbIterator) error {
	if len(children) != 0 {
		return dberror.IllegalState("SetChildren", "ListIterator", "leaf operator takes no children, got %d", len(children))
	}
	return nil
}

// Len returns the number of tuples the iterator produces per pass.
func (l *ListIterator) Len() int {
	return len(l.tuples)
}
