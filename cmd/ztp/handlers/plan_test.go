package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_RendersTargetsAndPayload(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubPipeline(t, testRunConfig(), sampleDocument)

	err := Plan(t.Context(), "ztp.yaml", false)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "edge-router-1")
	assert.Contains(t, text, "access-switch-1")
	assert.Contains(t, text, "192.168.1.0/24")
	assert.Contains(t, text, "Retry policy")
}

func TestPlan_InvalidDocumentAborts(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubPipeline(t, testRunConfig(), invalidDocument)

	err := Plan(t.Context(), "ztp.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot plan")
	assert.Contains(t, out.String(), "dhcp.gateway")
}

func TestPlan_JSONOutput(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureOutput(t)
	stubPipeline(t, testRunConfig(), sampleDocument)

	err := Plan(t.Context(), "ztp.yaml", true)
	require.NoError(t, err)

	var view planJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	require.Len(t, view.Targets, 2)
	assert.Equal(t, "edge-router-1", view.Targets[0].Identifier)
	assert.Equal(t, "router", view.Targets[0].Kind)
	assert.Equal(t, 1, view.Retry.MaxAttempts)
}
