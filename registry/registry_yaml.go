package registry

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/doriantaylor/go-params-registry/vtype"
)

// YAMLTemplate is the data-only subset of a descriptor that can be
// expressed in YAML: everything except the callback-bearing fields
// (consumer, default, universe, complement, unwind), which must be
// attached afterward via [Hooks].
type YAMLTemplate struct {
	Name         string   `yaml:"name"`
	Use          string   `yaml:"use,omitempty"`
	Type         string   `yaml:"type,omitempty"`
	Composite    string   `yaml:"composite,omitempty"`
	Format       string   `yaml:"format,omitempty"`
	Min          int      `yaml:"min,omitempty"`
	Max          int      `yaml:"max,omitempty"`
	MaxUnbounded bool     `yaml:"max_unbounded,omitempty"`
	Shift        bool     `yaml:"shift,omitempty"`
	Empty        bool     `yaml:"empty,omitempty"`
	Strict       bool     `yaml:"strict,omitempty"`
	Reverse      bool     `yaml:"reverse,omitempty"`
	Depends      []string `yaml:"depends,omitempty"`
	Conflicts    []string `yaml:"conflicts,omitempty"`
	Consumes     []string `yaml:"consumes,omitempty"`
	Groups       []string `yaml:"groups,omitempty"`
}

// YAMLSchema is the root document shape accepted by [DescriptorsFromYAML].
type YAMLSchema struct {
	Complement string              `yaml:"complement,omitempty"`
	Groups     map[string][]string `yaml:"groups,omitempty"`
	Params     []YAMLTemplate      `yaml:"params"`
}

// Hooks attaches the callback-bearing fields that accompany a descriptor
// (consumer, default, universe, complement, unwind) but cannot themselves
// be expressed as YAML data. Keyed by template name.
type Hooks struct {
	Default    DefaultFunc
	Consumer   ConsumerFunc
	Universe   UniverseFunc
	Complement ComplementFunc
	Unwind     UnwindFunc
}

// DescriptorsFromYAML parses a language-neutral registry schema from YAML,
// resolving named types and composites against the given lookup tables and
// attaching caller-provided Hooks by template name.
// A source comment on one of a param's fields ("type:", "min:", etc.) is
// attached via [WithDoc] and becomes the built Template's Doc; when several
// fields carry comments, the last one wins.
func DescriptorsFromYAML(
	data []byte,
	types map[string]vtype.Type,
	composites map[string]vtype.Composite,
	hooks map[string]Hooks,
) ([]Descriptor, *YAMLSchema, error) {
	var schema YAMLSchema

	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, nil, fmt.Errorf("parsing registry schema: %w", err)
	}

	docs, err := extractParamDocs(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing registry schema comments: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(schema.Params))

	for _, p := range schema.Params {
		opts, optErr := p.toOptions(types, composites, hooks[p.Name])
		if optErr != nil {
			return nil, nil, fmt.Errorf("param %q: %w", p.Name, optErr)
		}

		if doc := docs[p.Name]; doc != "" {
			opts = append(opts, WithDoc(doc))
		}

		descriptors = append(descriptors, Descriptor{
			Name:    p.Name,
			Use:     p.Use,
			Groups:  p.Groups,
			Options: opts,
		})
	}

	return descriptors, &schema, nil
}

func (p YAMLTemplate) toOptions(
	types map[string]vtype.Type,
	composites map[string]vtype.Composite,
	h Hooks,
) ([]TemplateOption, error) {
	var opts []TemplateOption

	if p.Type != "" {
		typ, ok := types[p.Type]
		if !ok {
			return nil, fmt.Errorf("unknown type %q", p.Type)
		}

		opts = append(opts, WithType(typ))
	}

	if p.Composite != "" {
		c, ok := composites[p.Composite]
		if !ok {
			return nil, fmt.Errorf("unknown composite %q", p.Composite)
		}

		opts = append(opts, WithComposite(c))
	}

	if p.Format != "" {
		format := p.Format
		opts = append(opts, WithFormat(func(a any) string { return fmt.Sprintf(format, a) }))
	}

	if p.Min > 0 {
		opts = append(opts, WithMin(p.Min))
	}

	switch {
	case p.MaxUnbounded:
		opts = append(opts, WithMax(0))
	case p.Max > 0:
		opts = append(opts, WithMax(p.Max))
	}

	opts = append(opts,
		WithShift(p.Shift),
		WithEmpty(p.Empty),
		WithStrict(p.Strict),
		WithReverse(p.Reverse),
	)

	if len(p.Depends) > 0 {
		opts = append(opts, WithDepends(p.Depends...))
	}

	if len(p.Conflicts) > 0 {
		opts = append(opts, WithConflicts(p.Conflicts...))
	}

	if len(p.Consumes) > 0 {
		opts = append(opts, WithConsumes(p.Consumes...))
	}

	if h.Default != nil {
		opts = append(opts, WithDefault(h.Default))
	}

	if h.Consumer != nil {
		opts = append(opts, WithConsumer(h.Consumer))
	}

	if h.Universe != nil {
		opts = append(opts, WithUniverse(h.Universe))
	}

	if h.Complement != nil {
		opts = append(opts, WithComplementFunc(h.Complement))
	}

	if h.Unwind != nil {
		opts = append(opts, WithUnwind(h.Unwind))
	}

	return opts, nil
}

// extractParamDocs walks the parsed YAML AST for the top-level "params"
// sequence and returns each item's "name" field mapped to the cleaned
// comment text found on any of its fields.
func extractParamDocs(data []byte) (map[string]string, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	docs := map[string]string{}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return docs, nil
	}

	root, ok := file.Docs[0].Body.(*ast.MappingNode)
	if !ok {
		return docs, nil
	}

	for _, mvn := range root.Values {
		if mvn.Key.String() != "params" {
			continue
		}

		seq, isSeq := mvn.Value.(*ast.SequenceNode)
		if !isSeq {
			continue
		}

		for _, item := range seq.Values {
			paramMapping, isMapping := item.(*ast.MappingNode)
			if !isMapping {
				continue
			}

			name, doc := paramNameAndDoc(paramMapping)
			if name != "" && doc != "" {
				docs[name] = doc
			}
		}
	}

	return docs, nil
}

func paramNameAndDoc(mapping *ast.MappingNode) (name, doc string) {
	for _, field := range mapping.Values {
		if field.Key.String() == "name" {
			name = field.Value.String()
		}

		if cleaned := cleanComment(field.GetComment()); cleaned != "" {
			doc = cleaned
		}
	}

	return name, doc
}

// cleanComment strips "#" markers and blank lines from a comment group,
// joining the remaining lines with spaces.
func cleanComment(comment *ast.CommentGroupNode) string {
	if comment == nil {
		return ""
	}

	var parts []string

	for _, line := range strings.Split(comment.String(), "\n") {
		line = strings.TrimSpace(line)

		for strings.HasPrefix(line, "#") {
			line = strings.TrimPrefix(line, "#")
		}

		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " ")
}
