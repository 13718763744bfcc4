package paramregtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doriantaylor/go-params-registry/paramregtest"
)

func TestJoinAmp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", paramregtest.JoinAmp())
	assert.Equal(t, "a=1", paramregtest.JoinAmp("a=1"))
	assert.Equal(t, "a=1&b=2&c=3", paramregtest.JoinAmp("a=1", "b=2", "c=3"))
}
