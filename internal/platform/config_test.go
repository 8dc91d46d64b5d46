package platform_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/platform"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := platform.LoadConfig(platform.NewViper(), "", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, platform.AdapterFS, cfg.Adapter)
	assert.Equal(t, ".folio", cfg.SystemDir)
	assert.Equal(t, "json", cfg.ExportFormat)
	assert.Equal(t, 12*time.Hour, cfg.Admin.TTL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.DevSafety)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.NotEmpty(t, opts)
}

func TestLoadConfig_FileEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte(`
adapter: sqlite
defaults: content.yaml
export_format: yaml
admin:
  password: from-file
  ttl: 30m
redis:
  prefix: "site:"
`), 0644))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FOLIO_CONTACT_ENDPOINT=https://forms.example.com/f/abc\n"), 0644))

	t.Setenv("FOLIO_ADMIN_PASSWORD", "from-env")
	t.Setenv("FOLIO_CONTACT_ENDPOINT", "")
	os.Unsetenv("FOLIO_CONTACT_ENDPOINT")

	cfg, err := platform.LoadConfig(platform.NewViper(), "", dir, envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Adapter)
	assert.Equal(t, "content.yaml", cfg.Defaults)
	assert.Equal(t, "yaml", cfg.ExportFormat)
	assert.Equal(t, "from-env", cfg.Admin.Password, "environment overrides the file")
	assert.Equal(t, 30*time.Minute, cfg.Admin.TTL)
	assert.Equal(t, "site:", cfg.Redis.Prefix)
	assert.Equal(t, "https://forms.example.com/f/abc", cfg.Contact.Endpoint)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := platform.LoadConfig(platform.NewViper(), filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err, "an explicit config file must exist")

	cfg := &platform.Config{ExportFormat: "xml"}
	_, err = cfg.Options()
	assert.Error(t, err)
}
