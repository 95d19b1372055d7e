package apiclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".pwrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"certificate": "/etc/pw/client.pem",
		"key": "/etc/pw/client.key",
		"certificateAuthority": "/etc/pw/ca.pem",
		"yes": true,
		"one": false,
		"colors": false
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/pw/client.pem", cfg.Certificate)
	assert.Equal(t, "/etc/pw/client.key", cfg.Key)
	assert.Equal(t, "/etc/pw/ca.pem", cfg.CertificateAuthority)
	assert.True(t, cfg.Yes)
	assert.False(t, cfg.One)
	assert.False(t, cfg.ColorsEnabled())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}

func TestLoadConfig_BaseURLOverride(t *testing.T) {
	path := writeConfigFile(t, `{"baseURL": "https://localhost:8443"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8443", cfg.BaseURL)
}

func TestLoadConfig_ColorsDefaultTrue(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.ColorsEnabled())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read configuration")
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{certificate}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse configuration")
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "client.pem")
	keyPath := filepath.Join(dir, "client.key")
	caPath := filepath.Join(dir, "ca.pem")
	for _, path := range []string{certPath, keyPath, caPath} {
		require.NoError(t, os.WriteFile(path, []byte("pem"), 0o600))
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := &Config{
			Certificate:          certPath,
			Key:                  keyPath,
			CertificateAuthority: caPath,
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("MissingCertificate", func(t *testing.T) {
		cfg := &Config{
			Key:                  keyPath,
			CertificateAuthority: caPath,
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "certificate not provided")
	})

	t.Run("CertificateDoesNotExist", func(t *testing.T) {
		cfg := &Config{
			Certificate:          filepath.Join(dir, "missing.pem"),
			Key:                  keyPath,
			CertificateAuthority: caPath,
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestResolveHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home+"/.pw/.pwrc", ResolveHome("~/.pw/.pwrc"))
	assert.Equal(t, "/etc/pw/client.pem", ResolveHome("/etc/pw/client.pem"))
	assert.Equal(t, "", ResolveHome(""))
}
