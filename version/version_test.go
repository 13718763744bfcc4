package version_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doriantaylor/go-params-registry/version"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	s := version.Summary()

	assert.True(t, strings.HasPrefix(s, "paramreg/"), "summary %q should start with paramreg/", s)
	assert.Contains(t, s, version.Revision)
	assert.Contains(t, s, version.GoOS+"/"+version.GoArch)
	assert.Contains(t, s, version.GoVersion)
}

func TestSummary_DefaultsVersionToDev(t *testing.T) {
	t.Parallel()

	if version.Version != "" {
		t.Skip("Version was set via ldflags for this build")
	}

	assert.Contains(t, version.Summary(), "paramreg/dev+")
}
