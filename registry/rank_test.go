package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doriantaylor/go-params-registry/registry"
)

func TestRanksOrderByDependency(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("c", registry.WithDepends("b")),
		registry.NewTemplate("b", registry.WithDepends("a")),
		registry.NewTemplate("a"),
	})
	require.NoError(t, err)

	ranks := reg.Ranks()
	require.Len(t, ranks, 3)
	assert.Equal(t, []string{"a"}, ranks[0])
	assert.Equal(t, []string{"b"}, ranks[1])
	assert.Equal(t, []string{"c"}, ranks[2])
}

func TestCycleDetected(t *testing.T) {
	t.Parallel()

	_, err := registry.New([]*registry.Template{
		registry.NewTemplate("a", registry.WithDepends("b")),
		registry.NewTemplate("b", registry.WithDepends("a")),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrCycle))
}

func TestConsumesPlacesConsumerInLaterRank(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]*registry.Template{
		registry.NewTemplate("date",
			registry.WithConsumes("year", "month"),
			registry.WithConsumer(func(values ...any) (any, error) { return nil, nil }),
		),
		registry.NewTemplate("year"),
		registry.NewTemplate("month"),
	})
	require.NoError(t, err)

	ranks := reg.Ranks()
	require.Len(t, ranks, 2)
	assert.ElementsMatch(t, []string{"year", "month"}, ranks[0])
	assert.Equal(t, []string{"date"}, ranks[1])
}
