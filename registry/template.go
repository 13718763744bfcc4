package registry

import (
	"fmt"

	"github.com/doriantaylor/go-params-registry/vtype"
)

// ConsumerFunc derives a parameter's value from the processed values of its
// consumes list, in order.
type ConsumerFunc func(values ...any) (any, error)

// DefaultFunc produces a parameter's default value, invoked only when the
// parameter is absent, non-conflicting, and defaults are requested.
type DefaultFunc func() (any, error)

// UniverseFunc produces the universal set or range used to compute this
// parameter's complement.
type UniverseFunc func() any

// ComplementFunc computes the set-theoretic complement of value with
// respect to universe.
type ComplementFunc func(value, universe any) any

// UnwindFunc is the inverse of composite construction: given a template and
// its processed value, it returns the ordered atoms plus a flag indicating
// whether the caller should prefer a complemented serialization.
type UnwindFunc func(t *Template, value any) (atoms []any, complement bool)

// FormatFunc renders a single atom for serialization. The default format is
// "%s"-style via fmt.Sprint.
type FormatFunc func(atom any) string

// Template is the immutable schema for a single parameter. Build one with
// [NewTemplate]; all fields are read-only after construction.
type Template struct {
	Name      string
	Type      vtype.Type
	Composite vtype.Composite // optional
	Format    FormatFunc

	Min, Max     int // Max == 0 means unbounded when MaxUnbounded is true
	MaxUnbounded bool

	Shift bool
	Empty bool

	// Strict disables the default truncate-on-overflow behavior: when set,
	// raw input longer than Max fails with [KindTooMany] instead of being
	// shifted or clipped.
	Strict bool

	Default DefaultFunc

	Depends   map[string]bool
	Conflicts map[string]bool
	Consumes  []string

	Consumer   ConsumerFunc
	Universe   UniverseFunc
	Complement ComplementFunc
	Unwind     UnwindFunc

	Reverse bool

	// Doc is a human-readable description, typically sourced from a YAML
	// comment when the template was loaded via DescriptorsFromYAML.
	Doc string

	unicache    any
	hasUnicache bool
}

// process runs the per-template pipeline: cardinality cap, per-atom
// normalization, composite construction, scalar selection, sequence
// fallback.
func (t *Template) process(raw []any) (any, error) {
	if t.Strict && !t.MaxUnbounded && t.Max > 0 && len(raw) > t.Max {
		return nil, &Error{Kind: KindTooMany, Name: t.Name, Have: len(raw), Max: t.Max}
	}

	atoms := t.capCardinality(raw)

	out := make([]any, len(atoms))

	for i, a := range atoms {
		if t.Empty && isEmptyAtom(a) {
			out[i] = nil
			continue
		}

		v := a

		if t.Type != nil && v != nil {
			if coerced, ok := t.Type.Coerce(v); ok {
				v = coerced
			}
		}

		if v != nil && t.Type != nil && !t.Type.Check(v) {
			return nil, &Error{
				Kind:     KindBadAtom,
				Name:     t.Name,
				Index:    i,
				TypeName: t.Type.Name(),
			}
		}

		out[i] = v
	}

	if t.Composite != nil {
		composite, ok := t.Composite.CoerceSequence(out)
		if !ok {
			return nil, &Error{Kind: KindUnknownComposite, Name: t.Name}
		}

		return composite, nil
	}

	if t.Max == 1 && !t.MaxUnbounded {
		if len(out) == 0 {
			return nil, nil
		}

		return out[0], nil
	}

	return out, nil
}

// capCardinality applies the cardinality cap, shifting or truncating raw
// down to at most t.Max atoms.
func (t *Template) capCardinality(raw []any) []any {
	if t.MaxUnbounded || t.Max <= 0 || len(raw) <= t.Max {
		return raw
	}

	if t.Shift {
		return raw[len(raw)-t.Max:]
	}

	return raw[:t.Max]
}

// isEmptyAtom reports whether a is nil or the empty string.
func isEmptyAtom(a any) bool {
	if a == nil {
		return true
	}

	s, ok := a.(string)

	return ok && s == ""
}

// unprocess inverts process for serialization. ok is false when the caller
// should omit the key entirely (absent, non-empty).
func (t *Template) unprocess(value any, present bool) (strs []string, complement bool, ok bool) {
	if !present {
		if t.Empty && t.Max == 1 && !t.MaxUnbounded {
			return []string{""}, false, true
		}

		if t.Empty && (t.Max != 1 || t.MaxUnbounded) {
			return []string{}, false, true
		}

		return nil, false, false
	}

	var atoms []any

	if t.Composite != nil && t.Unwind != nil {
		atoms, complement = t.Unwind(t, value)
	} else if seq, isSeq := value.([]any); isSeq {
		atoms = seq
	} else {
		atoms = []any{value}
	}

	format := t.Format
	if format == nil {
		format = defaultFormat
	}

	strs = make([]string, len(atoms))
	for i, a := range atoms {
		if a == nil {
			strs[i] = ""
			continue
		}

		strs[i] = format(a)
	}

	return strs, complement, true
}

func defaultFormat(a any) string {
	return fmt.Sprint(a)
}

// refresh (re)invokes Universe and caches the result, used by
// [Registry.Refresh].
func (t *Template) refresh() {
	if t.Universe == nil {
		return
	}

	t.unicache = t.Universe()
	t.hasUnicache = true
}

// universe returns the cached universe, computing it on first use if
// refresh was never called.
func (t *Template) universe() any {
	if !t.hasUnicache && t.Universe != nil {
		t.refresh()
	}

	return t.unicache
}

// applyComplement calls Complement(value, universe) if both are defined,
// else fails with [KindBadComplement].
func (t *Template) applyComplement(value any) (any, error) {
	if t.Complement == nil {
		return nil, &Error{Kind: KindBadComplement, Name: t.Name}
	}

	return t.Complement(value, t.universe()), nil
}
