// Package schema holds table definitions, the mapping between scalar value
// kinds and SQLite column types, and best-effort value coercion.
package schema

import (
	"strings"

	"github.com/spf13/cast"
)

// Type is a scalar value kind declared on a column.
type Type int

const (
	Text Type = iota
	Integer
	Real
	Blob
	Bool
)

// String returns the kind name as used in configuration and diagnostics.
func (t Type) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Blob:
		return "blob"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// DeclaredType returns the SQLite column type used in generated DDL.
// SQLite has no native BOOLEAN, so Bool is stored as INTEGER.
func (t Type) DeclaredType() string {
	switch t {
	case Integer, Bool:
		return "INTEGER"
	case Real:
		return "REAL"
	case Blob:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// TypeFromDeclared maps a declared SQLite column type back to a scalar kind.
// Bool round-trips as Integer since the storage types are identical.
func TypeFromDeclared(decl string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(decl)) {
	case "TEXT":
		return Text, true
	case "INTEGER", "INT":
		return Integer, true
	case "REAL", "FLOAT", "DOUBLE":
		return Real, true
	case "BLOB":
		return Blob, true
	case "BOOLEAN", "BOOL":
		return Bool, true
	default:
		return Text, false
	}
}

// ParseType maps a kind name from configuration ("text", "integer", ...)
// to a Type.
func ParseType(name string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "string", "str":
		return Text, true
	case "integer", "int":
		return Integer, true
	case "real", "float", "double":
		return Real, true
	case "blob", "bytes":
		return Blob, true
	case "bool", "boolean":
		return Bool, true
	default:
		return Text, false
	}
}

// Coerce converts value to the storage representation of t. It is a pure
// function: on success it returns the converted value and true; on failure
// it returns the original value unchanged and false. A nil value is the
// null marker and always passes through.
func Coerce(value any, t Type) (any, bool) {
	if value == nil {
		return nil, true
	}

	switch t {
	case Integer:
		v, err := cast.ToInt64E(value)
		if err != nil {
			return value, false
		}
		return v, true
	case Real:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return value, false
		}
		return v, true
	case Bool:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return value, false
		}
		// stored as INTEGER 0/1
		if v {
			return int64(1), true
		}
		return int64(0), true
	case Blob:
		switch v := value.(type) {
		case []byte:
			return v, true
		case string:
			return []byte(v), true
		default:
			return value, false
		}
	default: // Text
		v, err := cast.ToStringE(value)
		if err != nil {
			return value, false
		}
		return strings.TrimSpace(v), true
	}
}
