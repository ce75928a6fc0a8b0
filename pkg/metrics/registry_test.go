package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	Disable()
	assert.False(t, IsEnabled())
	assert.Nil(t, GetRegistry())
	assert.Nil(t, NewCodecMetrics(), "no constructor is linked into this package's tests")

	reg := InitRegistry()
	t.Cleanup(Disable)
	require.NotNil(t, reg)
	assert.True(t, IsEnabled())
	assert.Same(t, reg, GetRegistry())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families, "runtime collectors are registered")

	again := InitRegistry()
	assert.NotSame(t, reg, again)
}
