package memory

import (
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// TableInfo holds a table's metadata and its tuples.
//
// Tuples live in slots. A slot is never reused after its tuple is deleted, so
// a RecordID identifies at most one tuple for the lifetime of the table and a
// rolled-back delete can restore the tuple in place.
type TableInfo struct {
	ID        primitives.TableID
	Name      string
	TupleDesc *tuple.TupleDescription

	slots []*tuple.Tuple // nil marks a deleted slot
	live  int
}

// NewTableInfo creates an empty table.
func NewTableInfo(id primitives.TableID, name string, td *tuple.TupleDescription) *TableInfo {
	return &TableInfo{
		ID:        id,
		Name:      name,
		TupleDesc: td,
	}
}

// insert stores a copy of t and returns its RecordID.
func (ti *TableInfo) insert(t *tuple.Tuple) *tuple.RecordID {
	rid := tuple.NewRecordID(ti.ID, len(ti.slots))
	stored := t.Clone()
	stored.RecordID = rid
	ti.slots = append(ti.slots, stored)
	ti.live++
	return rid
}

// remove empties the slot of rid and returns the tuple it held.
func (ti *TableInfo) remove(rid *tuple.RecordID) (*tuple.Tuple, bool) {
	if rid.Slot < 0 || rid.Slot >= len(ti.slots) || ti.slots[rid.Slot] == nil {
		return nil, false
	}
	t := ti.slots[rid.Slot]
	ti.slots[rid.Slot] = nil
	ti.live--
	return t, true
}

// restore puts a removed tuple back into its slot.
func (ti *TableInfo) restore(t *tuple.Tuple) {
	ti.slots[t.RecordID.Slot] = t
	ti.live++
}

// snapshot returns copies of every live tuple in slot order.
func (ti *TableInfo) snapshot() []*tuple.Tuple {
	out := make([]*tuple.Tuple, 0, ti.live)
	for _, t := range ti.slots {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}

// NumTuples returns the number of live tuples.
func (ti *TableInfo) NumTuples() int {
	return ti.live
}
