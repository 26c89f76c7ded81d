package types

import (
	"encoding/binary"
	"strconv"

	"github.com/zeebo/xxh3"

	"querycore/pkg/primitives"
)

// IntField holds a signed 64-bit integer.
type IntField struct {
	Value int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	o, ok := other.(*IntField)
	if !ok {
		return false, mismatch(f, other)
	}
	return compareOrdered(f.Value, o.Value, op), nil
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Value, 10)
}

func (f *IntField) Equals(other Field) bool {
	o, ok := other.(*IntField)
	if !ok {
		return false
	}
	return f.Value == o.Value
}

func (f *IntField) Hash() (primitives.HashCode, error) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(f.Value)) // #nosec G115
	return primitives.HashCode(xxh3.Hash(b[:])), nil
}
