package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanup(t *testing.T) {
	cmd := Cleanup()

	require.NotNil(t, cmd)
	assert.Equal(t, "cleanup", cmd.Use)
	assert.Contains(t, cmd.Long, "WARNING")
	assert.NotNil(t, cmd.RunE)

	for _, name := range []string{"config", "cluster", "pattern", "yes", "dry-run", "output", "metrics-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "false", cmd.Flags().Lookup("yes").DefValue)
	assert.Equal(t, "y", cmd.Flags().Lookup("yes").Shorthand)
}

func TestDiscover(t *testing.T) {
	cmd := Discover()

	require.NotNil(t, cmd)
	assert.Equal(t, "discover", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("cluster"))
}
