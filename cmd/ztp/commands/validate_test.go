package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cmd := Validate()

	require.NotNil(t, cmd)
	assert.Equal(t, "validate", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestValidate_Flags(t *testing.T) {
	cmd := Validate()

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "ztp.yaml", configFlag.DefValue)

	jsonFlag := cmd.Flags().Lookup("json")
	require.NotNil(t, jsonFlag)
	assert.Equal(t, "false", jsonFlag.DefValue)
}

func TestPlan(t *testing.T) {
	cmd := Plan()

	require.NotNil(t, cmd)
	assert.Equal(t, "plan", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "ztp.yaml", configFlag.DefValue)
}
