package core

import (
	dberror "querycore/pkg/error"
	"querycore/pkg/types"
)

// GroupKey identifies one aggregation group. It is either the single
// ungrouped key or a key built from a field value. GroupKey is comparable and
// used directly as a map key; the ungrouped key can never equal a keyed one.
type GroupKey struct {
	keyed  bool
	typ    types.Type
	intVal int64
	strVal string
}

// UngroupedKey returns the key shared by every tuple of an ungrouped aggregate.
func UngroupedKey() GroupKey {
	return GroupKey{}
}

// KeyOf builds the group key for a field value.
func KeyOf(f types.Field) (GroupKey, error) {
	switch v := f.(type) {
	case *types.IntField:
		return GroupKey{keyed: true, typ: types.IntType, intVal: v.Value}, nil
	case *types.StringField:
		return GroupKey{keyed: true, typ: types.StringType, strVal: v.Value}, nil
	case nil:
		return GroupKey{}, dberror.IllegalState("KeyOf", "GroupKey", "group field is not set")
	default:
		return GroupKey{}, dberror.SchemaMismatch("KeyOf", "GroupKey", "unsupported group field type %s", f.Type())
	}
}

// IsUngrouped reports whether k is the ungrouped key.
func (k GroupKey) IsUngrouped() bool {
	return !k.keyed
}

func (k GroupKey) String() string {
	switch {
	case !k.keyed:
		return "<ungrouped>"
	case k.typ == types.IntType:
		return types.NewIntField(k.intVal).String()
	default:
		return k.strVal
	}
}
