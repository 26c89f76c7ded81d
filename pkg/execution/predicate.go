package execution

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// Predicate compares a tuple field to a constant value using a specified operation.
type Predicate struct {
	fieldIndex primitives.ColumnID // Which field in the tuple to compare (0-based index)
	op         primitives.Predicate
	operand    types.Field // The constant value to compare against
}

// NewPredicate creates a predicate "field op operand".
func NewPredicate(fieldIndex primitives.ColumnID, op primitives.Predicate, operand types.Field) (*Predicate, error) {
	if operand == nil {
		return nil, dberror.IllegalState("NewPredicate", "Predicate", "operand cannot be nil")
	}
	return &Predicate{
		fieldIndex: fieldIndex,
		op:         op,
		operand:    operand,
	}, nil
}

// Filter reports whether t satisfies the predicate. A nil field never does.
func (p *Predicate) Filter(t *tuple.Tuple) (bool, error) {
	field, err := t.GetField(int(p.fieldIndex))
	if err != nil {
		return false, err
	}

	if field == nil {
		return false, nil
	}
	return field.Compare(p.op, p.operand)
}

// Field returns the index of the compared column.
func (p *Predicate) Field() primitives.ColumnID { return p.fieldIndex }

// Op returns the comparison operator.
func (p *Predicate) Op() primitives.Predicate { return p.op }

// Operand returns the constant the column is compared against.
func (p *Predicate) Operand() types.Field { return p.operand }

// checkSchema verifies the predicate can be evaluated over td.
func (p *Predicate) checkSchema(td *tuple.TupleDescription) error {
	if td == nil {
		return dberror.IllegalState("checkSchema", "Predicate", "child has no tuple description")
	}
	typ, err := td.TypeAtIndex(int(p.fieldIndex))
	if err != nil {
		return dberror.IllegalState("checkSchema", "Predicate", "field %d out of range for %s", p.fieldIndex, td)
	}
	if typ != p.operand.Type() {
		return dberror.SchemaMismatch("checkSchema", "Predicate", "field %d is %s but operand is %s", p.fieldIndex, typ, p.operand.Type())
	}
	return nil
}

// String returns e.g. "field[2] > 100".
func (p *Predicate) String() string {
	return fmt.Sprintf("field[%d] %s %s", p.fieldIndex, p.op, p.operand)
}
