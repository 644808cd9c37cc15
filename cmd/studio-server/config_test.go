package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFileConfig(t *testing.T) {
	cfg, err := decodeFileConfig(strings.NewReader(`
addr: ":8080"
base_path: /editor/
db: ":memory:"
default_tenant: demo
backend:
  url: http://localhost:8000
  token: secret
seed:
  - tenant: demo
    template: t6
  - tenant: other
`))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	require.Len(t, cfg.Seed, 2)

	empty, err := decodeFileConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, fileConfig{}, empty)

	_, err = decodeFileConfig(strings.NewReader("listen: :80\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestResolveSettingsPrecedence(t *testing.T) {
	file := fileConfig{Addr: ":8080", BasePath: "/editor/", DefaultTenant: "demo", Seed: []seedEntry{{Tenant: "demo"}}}
	file.Backend.URL = "http://backend"

	cfg, err := resolveSettings(serverCLI{Addr: ":9000", Seed: []string{"acme=t2"}}, file)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr, "flags win over the file")
	assert.Equal(t, "/editor", cfg.BasePath)
	assert.Equal(t, defaultDB, cfg.DB)
	assert.Equal(t, "http://backend", cfg.BackendURL)
	assert.Equal(t, []seedEntry{{Tenant: "demo", Template: "t1"}, {Tenant: "acme", Template: "t2"}}, cfg.Seed)

	defaults, err := resolveSettings(serverCLI{}, fileConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, defaults.Addr)
	assert.Equal(t, defaultBasePath, defaults.BasePath)

	_, err = resolveSettings(serverCLI{Seed: []string{"=t3"}}, fileConfig{})
	assert.Error(t, err)
}

func TestLoadFileConfig(t *testing.T) {
	cfg, err := loadFileConfig("")
	require.NoError(t, err)
	assert.Equal(t, fileConfig{}, cfg)

	path := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0o600))
	cfg, err = loadFileConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)

	_, err = loadFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenStoreMemory(t *testing.T) {
	store, closeStore, err := openStore(":memory:")
	require.NoError(t, err)
	defer closeStore()
	assert.NotNil(t, store)
}

func TestBuildLogger(t *testing.T) {
	logger, err := buildLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}
