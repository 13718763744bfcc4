package registry

import "github.com/doriantaylor/go-params-registry/vtype"

// TemplateOption configures a [Template] built with [NewTemplate].
type TemplateOption func(*Template)

// NewTemplate builds a Template with the given name and options. Unset
// fields default to: Type [vtype.String], Min 0, Max unbounded, Shift and
// Empty false.
func NewTemplate(name string, opts ...TemplateOption) *Template {
	t := &Template{
		Name:         name,
		Type:         vtype.String(),
		MaxUnbounded: true,
		Depends:      map[string]bool{},
		Conflicts:    map[string]bool{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithType sets the atomic value type.
func WithType(typ vtype.Type) TemplateOption {
	return func(t *Template) { t.Type = typ }
}

// WithComposite sets the composite adapter applied to the whole sequence.
func WithComposite(c vtype.Composite) TemplateOption {
	return func(t *Template) { t.Composite = c }
}

// WithFormat sets the per-atom serialization function.
func WithFormat(f FormatFunc) TemplateOption {
	return func(t *Template) { t.Format = f }
}

// WithMin sets the minimum cardinality.
func WithMin(n int) TemplateOption {
	return func(t *Template) { t.Min = n }
}

// WithMax sets the maximum cardinality. A value <= 0 means unbounded.
func WithMax(n int) TemplateOption {
	return func(t *Template) {
		if n <= 0 {
			t.MaxUnbounded = true
			t.Max = 0

			return
		}

		t.MaxUnbounded = false
		t.Max = n
	}
}

// WithShift sets whether cardinality truncation keeps the rightmost (true)
// or leftmost (false, default) items.
func WithShift(shift bool) TemplateOption {
	return func(t *Template) { t.Shift = shift }
}

// WithEmpty sets whether null/"" atoms are preserved as meaningful rather
// than dropped.
func WithEmpty(empty bool) TemplateOption {
	return func(t *Template) { t.Empty = empty }
}

// WithStrict disables truncate-on-overflow: raw input longer than Max fails
// with [KindTooMany] instead of being shifted or clipped.
func WithStrict(strict bool) TemplateOption {
	return func(t *Template) { t.Strict = strict }
}

// WithDefault sets the thunk invoked when the parameter is absent,
// non-conflicting, and defaults are requested.
func WithDefault(f DefaultFunc) TemplateOption {
	return func(t *Template) { t.Default = f }
}

// WithDepends adds names that must also be present when this parameter is.
func WithDepends(names ...string) TemplateOption {
	return func(t *Template) {
		for _, n := range names {
			t.Depends[n] = true
		}
	}
}

// WithConflicts adds names that must not coexist with this parameter.
// The registry mirrors each edge symmetrically at construction.
func WithConflicts(names ...string) TemplateOption {
	return func(t *Template) {
		for _, n := range names {
			t.Conflicts[n] = true
		}
	}
}

// WithConsumes sets the ordered list of parameters whose processed values
// feed Consumer. Consuming implies Depends and Conflicts on every consumed
// name.
func WithConsumes(names ...string) TemplateOption {
	return func(t *Template) {
		t.Consumes = append([]string(nil), names...)

		for _, n := range names {
			t.Depends[n] = true
			t.Conflicts[n] = true
		}
	}
}

// WithConsumer sets the function deriving this parameter's value from its
// Consumes list.
func WithConsumer(f ConsumerFunc) TemplateOption {
	return func(t *Template) { t.Consumer = f }
}

// WithUniverse sets the thunk producing the universal set or range used for
// complementing.
func WithUniverse(f UniverseFunc) TemplateOption {
	return func(t *Template) { t.Universe = f }
}

// WithComplementFunc sets the function producing the set-theoretic
// complement of a value.
func WithComplementFunc(f ComplementFunc) TemplateOption {
	return func(t *Template) { t.Complement = f }
}

// WithUnwind sets the inverse of composite construction, used during
// serialization.
func WithUnwind(f UnwindFunc) TemplateOption {
	return func(t *Template) { t.Unwind = f }
}

// WithReverse sets the set/range ordering flag.
func WithReverse(reverse bool) TemplateOption {
	return func(t *Template) { t.Reverse = reverse }
}

// WithDoc sets a human-readable description.
func WithDoc(doc string) TemplateOption {
	return func(t *Template) { t.Doc = doc }
}

// useTemplate copies every field of src into a new Template named name, so
// a descriptor can inherit another template's fields by value and override
// only what differs.
func useTemplate(name string, src *Template) *Template {
	clone := *src
	clone.Name = name
	clone.Depends = cloneSet(src.Depends)
	clone.Conflicts = cloneSet(src.Conflicts)
	clone.Consumes = append([]string(nil), src.Consumes...)
	clone.hasUnicache = false
	clone.unicache = nil

	return &clone
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
