package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResultToConfig_URL(t *testing.T) {
	t.Parallel()

	r := &WizardResult{
		SourceKind:    "url",
		SourceURL:     "https://config.example.com/network.json",
		Token:         "secret",
		TargetName:    "edge-router-1",
		TargetAddress: "10.0.0.1",
		TargetKind:    "router",
		TargetUser:    "netops",
		TargetKeyFile: "/etc/ztp/key",
		FailFast:      true,
	}

	cfg := r.ToConfig()
	assert.Equal(t, "https://config.example.com/network.json", cfg.Source.URL)
	assert.Equal(t, "secret", cfg.Source.Token)
	assert.Empty(t, cfg.Source.File)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "edge-router-1", cfg.Targets[0].Name)
	assert.True(t, cfg.Deploy.FailFast)
	assert.Equal(t, DefaultMaxAttempts, cfg.Deploy.MaxAttempts)

	require.NoError(t, cfg.Validate())
}

func TestWizardResultToConfig_File(t *testing.T) {
	t.Parallel()

	r := &WizardResult{
		SourceKind:    "file",
		SourceFile:    "config.json",
		TargetName:    "core",
		TargetAddress: "192.0.2.1",
		TargetKind:    "generic",
		TargetUser:    DefaultUser,
		TargetKeyFile: "/etc/ztp/key",
	}

	cfg := r.ToConfig()
	assert.Equal(t, "config.json", cfg.Source.File)
	assert.Empty(t, cfg.Source.URL)
	require.NoError(t, cfg.Validate())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	r := &WizardResult{
		SourceKind:    "url",
		SourceURL:     "https://config.example.com/network.json",
		TargetName:    "edge-router-1",
		TargetAddress: "10.0.0.1",
		TargetKind:    "router",
		TargetUser:    "admin",
		TargetKeyFile: "/etc/ztp/key",
	}

	path := filepath.Join(t.TempDir(), "ztp.yaml")
	require.NoError(t, WriteYAML(r.ToConfig(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://config.example.com/network.json", loaded.Source.URL)
	require.Len(t, loaded.Targets, 1)
	assert.Equal(t, "edge-router-1", loaded.Targets[0].Name)
}

func TestWizardValidators(t *testing.T) {
	t.Parallel()

	assert.Error(t, validateTargetName(""))
	assert.Error(t, validateTargetName("has space"))
	assert.NoError(t, validateTargetName("edge-router-1"))

	assert.Error(t, validateAddress(""))
	assert.Error(t, validateAddress("not a host"))
	assert.NoError(t, validateAddress("10.0.0.1"))
	assert.NoError(t, validateAddress("router.lab.internal"))

	assert.Error(t, validateURL(""))
	assert.Error(t, validateURL("config.example.com"))
	assert.NoError(t, validateURL("https://config.example.com/network.json"))
}
