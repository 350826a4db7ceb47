package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Display.Currency = "$"
	cfg.Run.Strict = true
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int32(2), cfg.Display.Decimals)
	assert.Empty(t, cfg.Display.Currency)
	assert.False(t, cfg.Run.Strict)
	assert.True(t, cfg.Run.WriteLog)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Passbook", cfg.Git.AuthorName)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("run:\n  strict: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Run.Strict)
	assert.Equal(t, int32(2), cfg.Display.Decimals)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("display: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	t.Setenv("PASSBOOK_STRICT", "true")
	t.Setenv("PASSBOOK_DECIMALS", "4")
	t.Setenv("PASSBOOK_CURRENCY", "€")
	t.Setenv("PASSBOOK_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Run.Strict)
	assert.Equal(t, int32(4), cfg.Display.Decimals)
	assert.Equal(t, "€", cfg.Display.Currency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Run.WriteLog, "unset variables leave file values alone")
}

func TestEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("PASSBOOK_DECIMALS", "many")
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading environment")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "decimals: 2")
	assert.Contains(t, contents, "level: info")
	assert.Contains(t, contents, "auto_commit: false")
}
