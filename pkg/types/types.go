package types

import (
	"fmt"
	"strings"
)

type Type int

const (
	IntType Type = iota
	StringType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// ParseType maps a type name ("int", "INT_TYPE", "string", "text", ...) to its Type.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER", "INT_TYPE":
		return IntType, nil
	case "STRING", "TEXT", "VARCHAR", "STRING_TYPE":
		return StringType, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
