package registry

// Descriptor is the in-memory, language-neutral schema for one template: a
// name, an optional reuse pointer, group memberships, and the
// TemplateOptions that set its actual fields. Construct descriptors
// directly, or produce them with [DescriptorsFromYAML].
type Descriptor struct {
	Name    string
	Use     string
	Groups  []string
	Options []TemplateOption
}

// Build constructs a Registry from an ordered list of Descriptors,
// resolving "use" reuse pointers by copying the referenced template's
// fields before applying this descriptor's own Options. Descriptor.Use must
// name an earlier descriptor in the list; forward references fail with
// [KindUnknownReuse].
func Build(descriptors []Descriptor, opts ...Option) (*Registry, error) {
	byName := make(map[string]*Template, len(descriptors))
	built := make([]*Template, 0, len(descriptors))
	groups := map[string][]string{}

	for _, d := range descriptors {
		var t *Template

		if d.Use != "" {
			src, ok := byName[d.Use]
			if !ok {
				return nil, &Error{Kind: KindUnknownReuse, Name: d.Name, Missing: d.Use}
			}

			t = useTemplate(d.Name, src)

			for _, opt := range d.Options {
				opt(t)
			}
		} else {
			t = NewTemplate(d.Name, d.Options...)
		}

		if _, dup := byName[d.Name]; dup {
			return nil, &Error{Kind: KindDuplicateName, Name: d.Name}
		}

		byName[d.Name] = t
		built = append(built, t)

		for _, g := range d.Groups {
			groups[g] = append(groups[g], d.Name)
		}
	}

	return New(built, append([]Option{WithGroups(groups)}, opts...)...)
}
