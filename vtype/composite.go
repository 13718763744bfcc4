package vtype

import (
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

type compositeType struct {
	baseType
	coerceSeq func(atoms []any) (any, bool)
}

func (t *compositeType) CoerceSequence(atoms []any) (any, bool) { return t.coerceSeq(atoms) }

// StringSet is an ordered-input, set-valued Composite: it dedups and sorts
// its atoms lexically, which is what makes complement-based serialization a
// meaningful optimization -- the universe and the complement are computed
// over the same canonical ordering.
func StringSet() Composite {
	return &compositeType{
		baseType: baseType{
			name:   "set",
			schema: &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			check: func(v any) bool {
				_, ok := v.([]string)
				return ok
			},
			coerce: func(v any) (any, bool) {
				s, ok := v.([]string)
				return s, ok
			},
		},
		coerceSeq: func(atoms []any) (any, bool) {
			seen := make(map[string]bool, len(atoms))
			out := make([]string, 0, len(atoms))

			for _, a := range atoms {
				if a == nil {
					continue
				}

				s, ok := a.(string)
				if !ok {
					return nil, false
				}

				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}

			sort.Strings(out)

			return out, true
		},
	}
}

// SetComplement computes the complement of value (a []string produced by
// [StringSet]) with respect to universe (also a []string, assumed sorted
// and deduplicated). It is suitable as a Template's complement function.
func SetComplement(value, universe any) any {
	vs, ok := value.([]string)
	if !ok {
		return value
	}

	us, ok := universe.([]string)
	if !ok {
		return value
	}

	in := make(map[string]bool, len(vs))
	for _, s := range vs {
		in[s] = true
	}

	out := make([]string, 0, len(us))

	for _, u := range us {
		if !in[u] {
			out = append(out, u)
		}
	}

	return out
}

// Range is an ordered Composite over two atoms (min, max) built from elem.
// CoerceSequence requires exactly two atoms.
func Range(elem Type) Composite {
	name := fmt.Sprintf("range<%s>", elem.Name())

	return &compositeType{
		baseType: baseType{
			name: name,
			schema: &jsonschema.Schema{
				Type:     "array",
				Items:    elem.Schema(),
				MinItems: intPtr(2),
				MaxItems: intPtr(2),
			},
			check: func(v any) bool {
				pair, ok := v.([2]any)
				return ok && elem.Check(pair[0]) && elem.Check(pair[1])
			},
			coerce: func(v any) (any, bool) {
				pair, ok := v.([2]any)
				return pair, ok
			},
		},
		coerceSeq: func(atoms []any) (any, bool) {
			if len(atoms) != 2 {
				return nil, false
			}

			return [2]any{atoms[0], atoms[1]}, true
		},
	}
}

func intPtr(n int) *int { return &n }
