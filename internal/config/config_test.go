package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Metalúrgica Sul")
	cfg.Ledger.AllowOverpayment = true
	cfg.Storage.Backend = BackendPostgres
	cfg.Storage.DSN = "postgres://localhost/oficina"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Company.Name, got.Company.Name)
	assert.Equal(t, BackendPostgres, got.Storage.Backend)
	assert.Equal(t, cfg.Storage.DSN, got.Storage.DSN)
	assert.True(t, got.Ledger.AllowOverpayment)
	assert.Equal(t, cfg.Git.AutoCommit, got.Git.AutoCommit)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
	assert.Equal(t, cfg.Git.AuthorEmail, got.Git.AuthorEmail)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Company.Name)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.False(t, cfg.Ledger.AllowOverpayment)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Oficina", cfg.Git.AuthorName)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("company:\n  name: Acme\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "redis")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadProjectAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, FileName), Default("Acme")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OFICINA_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv(EnvDatabaseURL, "postgres://env/oficina")
	// .env never overrides a variable that is already set.
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/oficina", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestDataDir(t *testing.T) {
	cfg := Default("Acme")
	assert.Equal(t, filepath.Join("/srv/acme", "data"), cfg.DataDir("/srv/acme"))

	cfg.Storage.Dir = "/var/lib/oficina"
	assert.Equal(t, "/var/lib/oficina", cfg.DataDir("/srv/acme"))
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "allow_overpayment: false")
	assert.Contains(t, contents, "auto_commit: true")
}
