package tuple

import (
	"fmt"

	"querycore/pkg/primitives"
)

// RecordID identifies where a stored tuple lives. Stores assign it on insert
// and use it to locate the tuple again on delete.
type RecordID struct {
	TableID primitives.TableID
	Slot    int
}

// NewRecordID creates a new RecordID
func NewRecordID(tableID primitives.TableID, slot int) *RecordID {
	return &RecordID{
		TableID: tableID,
		Slot:    slot,
	}
}

func (rid *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return rid.TableID == other.TableID && rid.Slot == other.Slot
}

func (rid *RecordID) String() string {
	return fmt.Sprintf("RecordID(table=%d, slot=%d)", rid.TableID, rid.Slot)
}
