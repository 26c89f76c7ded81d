package execution

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/tuple"
)

// Filter passes through the child tuples that satisfy its predicate.
type Filter struct {
	*iterator.UnaryOperator
	predicate *Predicate
}

func NewFilter(predicate *Predicate, child iterator.DbIterator) (*Filter, error) {
	if predicate == nil {
		return nil, dberror.IllegalState("NewFilter", "Filter", "predicate cannot be nil")
	}
	if child == nil {
		return nil, dberror.IllegalState("NewFilter", "Filter", "child operator cannot be nil")
	}
	if err := predicate.checkSchema(child.GetTupleDesc()); err != nil {
		return nil, err
	}

	f := &Filter{predicate: predicate}
	unary, err := iterator.NewUnaryOperator(child, f.readNext)
	if err != nil {
		return nil, err
	}
	f.UnaryOperator = unary
	return f, nil
}

// Predicate returns the filter condition.
func (f *Filter) Predicate() *Predicate {
	return f.predicate
}

func (f *Filter) readNext() (*tuple.Tuple, error) {
	for {
		t, err := f.FetchNext()
		if err != nil || t == nil {
			return nil, err
		}

		passes, err := f.predicate.Filter(t)
		if err != nil {
			return nil, fmt.Errorf("predicate evaluation failed: %w", err)
		}

		if passes {
			return t, nil
		}
	}
}

// SetChildren replaces the child after checking the predicate still applies.
func (f *Filter) SetChildren(children []iterator.DbIterator) error {
	if len(children) == 1 && children[0] != nil && !f.IsOpen() {
		if err := f.predicate.checkSchema(children[0].GetTupleDesc()); err != nil {
			return err
		}
	}
	return f.UnaryOperator.SetChildren(children)
}

var _ iterator.DbIterator = (*Filter)(nil)
