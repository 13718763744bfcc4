package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doriantaylor/go-params-registry/registry"
	"github.com/doriantaylor/go-params-registry/vtype"
)

const testSchemaYAML = `
complement: complement
groups:
  paging:
    - page
    - size
params:
  - name: page
    type: int
    max: 1
    groups: [paging]
  - name: size
    use: page
  - name: tags
    composite: set
    min: 1
`

func TestDescriptorsFromYAML(t *testing.T) {
	t.Parallel()

	types := map[string]vtype.Type{"int": vtype.Int(nil, nil)}
	composites := map[string]vtype.Composite{"set": vtype.StringSet()}

	descriptors, schema, err := registry.DescriptorsFromYAML([]byte(testSchemaYAML), types, composites, nil)
	require.NoError(t, err)
	require.Len(t, descriptors, 3)

	assert.Equal(t, "complement", schema.Complement)
	assert.Equal(t, []string{"page", "size"}, schema.Groups["paging"])

	assert.Equal(t, "page", descriptors[0].Name)
	assert.Equal(t, "size", descriptors[1].Name)
	assert.Equal(t, "page", descriptors[1].Use)
	assert.Equal(t, "tags", descriptors[2].Name)

	reg, err := registry.Build(descriptors)
	require.NoError(t, err)

	pageTemplate, ok := reg.Template("page")
	require.True(t, ok)
	assert.Equal(t, 1, pageTemplate.Max)

	sizeTemplate, ok := reg.Template("size")
	require.True(t, ok)
	assert.Equal(t, 1, sizeTemplate.Max)

	tagsTemplate, ok := reg.Template("tags")
	require.True(t, ok)
	assert.Equal(t, 1, tagsTemplate.Min)
	assert.NotNil(t, tagsTemplate.Composite)
}

func TestDescriptorsFromYAMLUnknownType(t *testing.T) {
	t.Parallel()

	_, _, err := registry.DescriptorsFromYAML([]byte(`params:
  - name: x
    type: nope
`), nil, nil, nil)
	require.Error(t, err)
}

func TestDescriptorsFromYAMLHooks(t *testing.T) {
	t.Parallel()

	hooks := map[string]registry.Hooks{
		"mode": {
			Default: func() (any, error) { return "auto", nil },
		},
	}

	descriptors, _, err := registry.DescriptorsFromYAML([]byte(`params:
  - name: mode
    max: 1
`), nil, nil, hooks)
	require.NoError(t, err)

	reg, err := registry.Build(descriptors)
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{})
	require.NoError(t, err)

	v, ok := inst.Get("mode")
	require.True(t, ok)
	assert.Equal(t, "auto", v)
}
