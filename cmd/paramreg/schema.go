package main

import (
	"fmt"
	"os"

	"github.com/doriantaylor/go-params-registry/registry"
	"github.com/doriantaylor/go-params-registry/vtype"
)

// builtinTypes maps the scalar type names recognized in a schema YAML file
// to the [vtype.Type] values that implement them. Range-limited numeric
// types are not reachable through this table; a schema needing bounds
// should use a named composite instead.
func builtinTypes() map[string]vtype.Type {
	return map[string]vtype.Type{
		"string": vtype.String(),
		"int":    vtype.Int(nil, nil),
		"float":  vtype.Float(nil, nil),
		"bool":   vtype.Bool(),
	}
}

// builtinComposites maps the composite type names recognized in a schema
// YAML file to the [vtype.Composite] values that implement them.
func builtinComposites() map[string]vtype.Composite {
	return map[string]vtype.Composite{
		"set":       vtype.StringSet(),
		"int_range": vtype.Range(vtype.Int(nil, nil)),
	}
}

// loadRegistry reads the schema file at path, parses it with
// [registry.DescriptorsFromYAML] against the built-in type and composite
// tables, and builds a [*registry.Registry] from the resulting descriptors.
func loadRegistry(path string) (*registry.Registry, *registry.YAMLSchema, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: no schema file given", ErrMissingSchema)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading schema %s: %w", path, err)
	}

	descriptors, schema, err := registry.DescriptorsFromYAML(data, builtinTypes(), builtinComposites(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing schema %s: %w", path, err)
	}

	var opts []registry.Option
	if schema.Complement != "" {
		opts = append(opts, registry.WithComplementName(schema.Complement))
	}

	if len(schema.Groups) > 0 {
		opts = append(opts, registry.WithGroups(schema.Groups))
	}

	reg, err := registry.Build(descriptors, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("building registry from %s: %w", path, err)
	}

	return reg, schema, nil
}
