package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{KeyWebserverAddress, KeyDataFile, KeyStoreBackend, KeyAdminKey, KeyAllowNegativePenalties} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.WebserverAddress)
	assert.Equal(t, "rally_data.json", cfg.DataFile)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "wwwroot", cfg.StaticDir)
	assert.Empty(t, cfg.AdminKey)
	assert.False(t, cfg.AllowNegativePenalties)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv(KeyDataFile, "/tmp/rally.json")
	t.Setenv(KeyStoreBackend, "SQLite")
	t.Setenv(KeyAdminKey, "s3cret")
	t.Setenv(KeyAllowNegativePenalties, "true")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rally.json", cfg.DataFile)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "s3cret", cfg.AdminKey)
	assert.True(t, cfg.AllowNegativePenalties)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv(KeyDataFile, "/tmp/env.json")
	t.Setenv(KeyWebserverAddress, ":7000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-file", "", "")
	fs.String("webserver-address", "", "")
	require.NoError(t, fs.Parse([]string{"--data-file", "/tmp/flag.json"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.json", cfg.DataFile)
	assert.Equal(t, ":7000", cfg.WebserverAddress, "unset flags keep the environment")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv(KeyStoreBackend, "postgres")
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_KEY=from-dotenv\n"), 0o644))
	t.Setenv(KeyAdminKey, "")
	os.Unsetenv(KeyAdminKey)

	LoadDotEnv(path)
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AdminKey)
}
