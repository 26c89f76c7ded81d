package tuple

import (
	"fmt"
	"strings"

	dberror "querycore/pkg/error"
	"querycore/pkg/types"
)

// TupleDescription describes the schema of a tuple (like a table schema).
// It holds the type and optional name of each field in order. A description
// never changes after construction; NewTupleDesc copies its inputs.
type TupleDescription struct {
	fieldTypes []types.Type
	fieldNames []string
}

// NewTupleDesc creates a new TupleDescription given field types and optional field names.
// If fieldNames is nil, fields will have no names.
//
// Parameters:
//   - fieldTypes: slice of field types (must contain at least one element)
//   - fieldNames: optional slice of field names (must match fieldTypes length if provided)
//
// Returns:
//   - *TupleDescription: newly created tuple descriptor
//   - error: if fieldTypes is empty or fieldNames length doesn't match fieldTypes length
func NewTupleDesc(fieldTypes []types.Type, fieldNames []string) (*TupleDescription, error) {
	if len(fieldTypes) < 1 {
		return nil, dberror.IllegalState("NewTupleDesc", "TupleDescription", "must provide at least one field type")
	}

	typesCopy := make([]types.Type, len(fieldTypes))
	copy(typesCopy, fieldTypes)

	var namesCopy []string
	if fieldNames != nil {
		if len(fieldNames) != len(fieldTypes) {
			return nil, dberror.IllegalState("NewTupleDesc", "TupleDescription",
				"field names length (%d) must match field types length (%d)", len(fieldNames), len(fieldTypes))
		}
		namesCopy = make([]string, len(fieldNames))
		copy(namesCopy, fieldNames)
	}

	return &TupleDescription{
		fieldTypes: typesCopy,
		fieldNames: namesCopy,
	}, nil
}

// MustTupleDesc is NewTupleDesc for schemas known to be valid at compile time.
func MustTupleDesc(fieldTypes []types.Type, fieldNames []string) *TupleDescription {
	td, err := NewTupleDesc(fieldTypes, fieldNames)
	if err != nil {
		panic(err)
	}
	return td
}

// NumFields returns the number of fields in this tuple descriptor.
func (td *TupleDescription) NumFields() int {
	return len(td.fieldTypes)
}

// GetFieldName returns the name of the ith field.
//
// Returns:
//   - string: field name, or empty string if no names were provided
//   - error: if index is out of bounds
func (td *TupleDescription) GetFieldName(i int) (string, error) {
	if i < 0 || i >= len(td.fieldTypes) {
		return "", fmt.Errorf("field index %d out of bounds [0, %d)", i, len(td.fieldTypes))
	}

	if td.fieldNames == nil {
		return "", nil
	}

	return td.fieldNames[i], nil
}

// TypeAtIndex returns the type of the ith field.
func (td *TupleDescription) TypeAtIndex(i int) (types.Type, error) {
	if i < 0 || i >= len(td.fieldTypes) {
		return 0, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(td.fieldTypes))
	}
	return td.fieldTypes[i], nil
}

// FieldTypes returns a copy of the type sequence.
func (td *TupleDescription) FieldTypes() []types.Type {
	out := make([]types.Type, len(td.fieldTypes))
	copy(out, td.fieldTypes)
	return out
}

// Equals checks if two TupleDescriptions are compatible: same number of
// fields and the same type at every position. Field names are advisory and
// are not compared.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	if other == nil {
		return false
	}

	if len(td.fieldTypes) != len(other.fieldTypes) {
		return false
	}

	for i, fieldType := range td.fieldTypes {
		if fieldType != other.fieldTypes[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of this TupleDescription.
// Format: "Type1(fieldName1),Type2(fieldName2),..."
// If a field has no name, "null" is used as the name.
func (td *TupleDescription) String() string {
	parts := make([]string, 0, len(td.fieldTypes))

	for i, fieldType := range td.fieldTypes {
		fieldName := "null"
		if td.fieldNames != nil && td.fieldNames[i] != "" {
			fieldName = td.fieldNames[i]
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", fieldType.String(), fieldName))
	}

	return strings.Join(parts, ",")
}

// FindFieldIndex locates a field by name in the tuple descriptor.
// Performs case-sensitive linear search through the schema definition.
func (td *TupleDescription) FindFieldIndex(fieldName string) (int, error) {
	for i := range td.fieldNames {
		if td.fieldNames[i] == fieldName {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %s not found", fieldName)
}
