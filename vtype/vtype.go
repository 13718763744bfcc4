// Package vtype is a thin facade over an external type-constraint system,
// exposing the minimal interface the registry core needs: check a value,
// optionally coerce it, and describe it for error messages.
//
// Each built-in adapter carries a [jsonschema.Schema] fragment built at
// construction that describes its constraint in a standard, introspectable
// shape that other tooling (schema export, documentation generation) can
// consume. Check and Coerce are plain Go functions and do not consult that
// schema.
package vtype

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// Type wraps an atomic value constraint: a check, an optional coercion, and
// a name for error messages. Implementations must not hold mutable state
// beyond what is fixed at construction -- instances are shared across
// concurrent Registry reads.
type Type interface {
	// Check reports whether v satisfies this type.
	Check(v any) bool

	// Coerce attempts to convert v into this type's canonical
	// representation. ok is false when no coercion is defined or the
	// input cannot be converted.
	Coerce(v any) (coerced any, ok bool)

	// Name returns a human-readable name for error messages.
	Name() string

	// Schema returns the compiled constraint fragment backing this type.
	Schema() *jsonschema.Schema
}

// Composite wraps a constraint over an entire ordered sequence of atomic
// values, such as a range or a set, rather than a single value.
type Composite interface {
	Type

	// CoerceSequence builds a composite value from an ordered sequence of
	// already-coerced atoms. ok is false when the atoms cannot be built into
	// this composite (for example, a [Range] given other than two atoms),
	// surfaced by callers as [registry.KindUnknownComposite].
	CoerceSequence(atoms []any) (composite any, ok bool)
}

type baseType struct {
	name   string
	schema *jsonschema.Schema
	check  func(v any) bool
	coerce func(v any) (any, bool)
}

func (t *baseType) Check(v any) bool           { return t.check(v) }
func (t *baseType) Coerce(v any) (any, bool)   { return t.coerce(v) }
func (t *baseType) Name() string               { return t.name }
func (t *baseType) Schema() *jsonschema.Schema { return t.schema }

// String returns a Type that accepts any string, coercing non-strings via
// fmt.Sprint.
func String() Type {
	return &baseType{
		name:   "string",
		schema: &jsonschema.Schema{Type: "string"},
		check: func(v any) bool {
			_, ok := v.(string)
			return ok
		},
		coerce: func(v any) (any, bool) {
			if s, ok := v.(string); ok {
				return s, true
			}
			return fmt.Sprint(v), true
		},
	}
}

// Int returns a Type accepting integers within [min, max] (either bound may
// be nil for unbounded). Strings are coerced via strconv.Atoi.
func Int(minV, maxV *int) Type {
	schema := &jsonschema.Schema{Type: "integer"}
	if minV != nil {
		m := float64(*minV)
		schema.Minimum = &m
	}
	if maxV != nil {
		m := float64(*maxV)
		schema.Maximum = &m
	}

	inRange := func(n int) bool {
		if minV != nil && n < *minV {
			return false
		}
		if maxV != nil && n > *maxV {
			return false
		}
		return true
	}

	return &baseType{
		name:   "int",
		schema: schema,
		check: func(v any) bool {
			n, ok := v.(int)
			return ok && inRange(n)
		},
		coerce: func(v any) (any, bool) {
			switch t := v.(type) {
			case int:
				return t, true
			case string:
				n, err := strconv.Atoi(t)
				if err != nil {
					return nil, false
				}
				return n, true
			}
			return nil, false
		},
	}
}

// Float returns a Type accepting floating-point numbers within [min, max].
// Strings are coerced via strconv.ParseFloat.
func Float(minV, maxV *float64) Type {
	schema := &jsonschema.Schema{Type: "number"}
	schema.Minimum = minV
	schema.Maximum = maxV

	inRange := func(f float64) bool {
		if minV != nil && f < *minV {
			return false
		}
		if maxV != nil && f > *maxV {
			return false
		}
		return true
	}

	return &baseType{
		name:   "float",
		schema: schema,
		check: func(v any) bool {
			f, ok := v.(float64)
			return ok && inRange(f)
		},
		coerce: func(v any) (any, bool) {
			switch t := v.(type) {
			case float64:
				return t, true
			case int:
				return float64(t), true
			case string:
				f, err := strconv.ParseFloat(t, 64)
				if err != nil {
					return nil, false
				}
				return f, true
			}
			return nil, false
		},
	}
}

// Bool returns a Type accepting booleans, coercing strings via
// strconv.ParseBool.
func Bool() Type {
	return &baseType{
		name:   "bool",
		schema: &jsonschema.Schema{Type: "boolean"},
		check: func(v any) bool {
			_, ok := v.(bool)
			return ok
		},
		coerce: func(v any) (any, bool) {
			switch t := v.(type) {
			case bool:
				return t, true
			case string:
				b, err := strconv.ParseBool(t)
				if err != nil {
					return nil, false
				}
				return b, true
			}
			return nil, false
		},
	}
}

// Enum returns a Type accepting only the given string values.
func Enum(values ...string) Type {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}

	return &baseType{
		name:   "enum",
		schema: &jsonschema.Schema{Type: "string", Enum: enum},
		check: func(v any) bool {
			s, ok := v.(string)
			return ok && slices.Contains(values, s)
		},
		coerce: func(v any) (any, bool) {
			s, ok := v.(string)
			return s, ok
		},
	}
}

// Pattern returns a Type accepting strings matching the given regular
// expression. Returns an error if expr fails to compile.
func Pattern(expr string) (Type, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}

	return &baseType{
		name:   "pattern",
		schema: &jsonschema.Schema{Type: "string", Pattern: expr},
		check: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
		coerce: func(v any) (any, bool) {
			s, ok := v.(string)
			return s, ok
		},
	}, nil
}
