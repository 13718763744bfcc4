package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doriantaylor/go-params-registry/paramregtest"
	"github.com/doriantaylor/go-params-registry/registry"
	"github.com/doriantaylor/go-params-registry/vtype"
)

func TestAsStringRoundTrip(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("a", registry.WithMax(1)),
		registry.NewTemplate("b", registry.WithMax(1)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{
		"a": {"1"},
		"b": {"2"},
	})
	require.NoError(t, err)

	assert.Equal(t, paramregtest.JoinAmp("a=1", "b=2"), inst.AsString())
}

func TestProcessScalarInt(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("page", registry.WithType(vtype.Int(intPtr(1), nil)), registry.WithMax(1)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"page": {"3"}})
	require.NoError(t, err)

	v, ok := inst.Get("page")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestProcessBadAtom(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("page", registry.WithType(vtype.Int(intPtr(1), nil)), registry.WithMax(1)),
	})
	require.NoError(t, err)

	_, err = reg.Process(map[string][]any{"page": {"nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrBadAtom))
}

func TestConsumerCascade(t *testing.T) {
	t.Parallel()

	dateTemplate := registry.NewTemplate("date",
		registry.WithConsumes("year", "month", "day"),
		registry.WithConsumer(func(values ...any) (any, error) {
			return values[0].(string) + "-" + values[1].(string) + "-" + values[2].(string), nil
		}),
		registry.WithMax(1),
	)

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("year", registry.WithMax(1)),
		registry.NewTemplate("month", registry.WithMax(1)),
		registry.NewTemplate("day", registry.WithMax(1)),
		dateTemplate,
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{
		"year":  {"2026"},
		"month": {"08"},
		"day":   {"01"},
	})
	require.NoError(t, err)

	v, ok := inst.Get("date")
	require.True(t, ok)
	assert.Equal(t, "2026-08-01", v)

	assert.False(t, inst.Exists("year"))
	assert.False(t, inst.Exists("month"))
	assert.False(t, inst.Exists("day"))
}

func TestRawDateReplacesConsumedInputs(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("year", registry.WithMax(1)),
		registry.NewTemplate("month", registry.WithMax(1)),
		registry.NewTemplate("day", registry.WithMax(1)),
		registry.NewTemplate("date",
			registry.WithConsumes("year", "month", "day"),
			registry.WithConsumer(func(values ...any) (any, error) {
				return "joined", nil
			}),
			registry.WithMax(1),
		),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{
		"date": {"2026-08-01"},
		"year": {"2026"},
	})
	require.NoError(t, err)

	v, ok := inst.Get("date")
	require.True(t, ok)
	assert.Equal(t, "2026-08-01", v)
	assert.False(t, inst.Exists("year"))
}

func TestSymmetricConflictAtomicOnSet(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("a", registry.WithConflicts("b"), registry.WithMax(1)),
		registry.NewTemplate("b", registry.WithMax(1)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"a": {"x"}})
	require.NoError(t, err)

	err = inst.Set(map[string][]any{"b": {"y"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrConflict))

	v, ok := inst.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.False(t, inst.Exists("b"))
}

func TestTooFewMinCardinality(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("tags", registry.WithMin(2)),
	})
	require.NoError(t, err)

	_, err = reg.Process(map[string][]any{"tags": {"one"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrTooFew))
}

func TestTooManyStrict(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("tags", registry.WithMax(2), registry.WithStrict(true)),
	})
	require.NoError(t, err)

	_, err = reg.Process(map[string][]any{"tags": {"a", "b", "c"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrTooMany))
}

func TestShiftKeepsRightmost(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("tags", registry.WithMax(2), registry.WithShift(true)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"tags": {"a", "b", "c"}})
	require.NoError(t, err)

	v, ok := inst.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []any{"b", "c"}, v)
}

func TestTruncateKeepsLeftmost(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("tags", registry.WithMax(2)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"tags": {"a", "b", "c"}})
	require.NoError(t, err)

	v, ok := inst.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestComplementOptimization(t *testing.T) {
	t.Parallel()

	universe := []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("days",
			registry.WithComposite(vtype.StringSet()),
			registry.WithUniverse(func() any { return universe }),
			registry.WithComplementFunc(vtype.SetComplement),
			registry.WithUnwind(func(tpl *registry.Template, value any) ([]any, bool) {
				vs, _ := value.([]string)
				atoms := make([]any, len(vs))
				for i, s := range vs {
					atoms[i] = s
				}

				return atoms, true
			}),
		),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{
		"days": {"mon", "tue", "wed", "thu", "fri", "sat"},
	})
	require.NoError(t, err)

	out := inst.AsString()
	assert.Contains(t, out, "complement=days")
	assert.Contains(t, out, "days=sun")
}

func TestMissingDependency(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("a", registry.WithDepends("b"), registry.WithMax(1)),
		registry.NewTemplate("b", registry.WithMax(1)),
	})
	require.NoError(t, err)

	_, err = reg.Process(map[string][]any{"a": {"x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrMissingDependency))
}

func TestDefaultAppliedWhenAbsentAndNonConflicting(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("mode",
			registry.WithMax(1),
			registry.WithDefault(func() (any, error) { return "auto", nil }),
			registry.WithConflicts("override"),
		),
		registry.NewTemplate("override", registry.WithMax(1)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{})
	require.NoError(t, err)

	v, ok := inst.Get("mode")
	require.True(t, ok)
	assert.Equal(t, "auto", v)

	inst2, err := reg.Process(map[string][]any{"override": {"x"}})
	require.NoError(t, err)
	assert.False(t, inst2.Exists("mode"))
}

func TestDuplicateName(t *testing.T) {
	t.Parallel()

	_, err := registry.New([]*registry.Template{
		registry.NewTemplate("a"),
		registry.NewTemplate("a"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrDuplicateName))
}

func TestGroupAndOther(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("a", registry.WithMax(1)),
		registry.NewTemplate("b", registry.WithMax(1)),
	}, registry.WithGroups(map[string][]string{"pair": {"a", "b"}}))
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{
		"a":         {"1"},
		"b":         {"2"},
		"untracked": {"3"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, inst.Group("pair"))

	other, ok := inst.GetOther("untracked")
	require.True(t, ok)
	assert.Equal(t, "3", other)
}

func TestEmptyScalarPreservesNullAtom(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("k", registry.WithMax(1), registry.WithEmpty(true)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"k": {""}})
	require.NoError(t, err)

	v, ok := inst.Get("k")
	require.True(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, "k=", inst.AsString())
}

func TestEmptyScalarAbsentSerializesAsBareKey(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("k", registry.WithMax(1), registry.WithEmpty(true)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{})
	require.NoError(t, err)

	assert.False(t, inst.Exists("k"))
	assert.Equal(t, "k=", inst.AsString())
}

func TestEmptySequencePreservesNullAtomAmongValues(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("k", registry.WithMax(2), registry.WithEmpty(true)),
	})
	require.NoError(t, err)

	inst, err := reg.Process(map[string][]any{"k": {"", "x"}})
	require.NoError(t, err)

	v, ok := inst.Get("k")
	require.True(t, ok)
	assert.Equal(t, []any{nil, "x"}, v)

	assert.Equal(t, "k=&k=x", inst.AsString())
}

func intPtr(n int) *int { return &n }
