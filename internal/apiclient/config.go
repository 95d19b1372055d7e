package apiclient

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultConfigPath is where the command line interface looks for its
// configuration file unless told otherwise.
const DefaultConfigPath = "~/.pw/.pwrc"

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.passwords.durfee.io"

// Config holds the command line interface configuration, read from a JSON
// file. Paths may use a leading "~" for the home directory. Command line
// flags override the file's values.
type Config struct {
	// Certificate is the path to the client certificate, used both for TLS
	// client authentication and for wrapping session keys on encryption.
	Certificate string `json:"certificate"`
	// Key is the path to the private key, used both for TLS client
	// authentication and for unwrapping session keys on decryption.
	Key string `json:"key"`
	// CertificateAuthority is the path to the CA bundle that validates the
	// server certificate.
	CertificateAuthority string `json:"certificateAuthority"`
	// Yes answers all confirmation prompts automatically.
	Yes bool `json:"yes"`
	// One displays only the decrypted password of the first result.
	One bool `json:"one"`
	// Colors enables colored console output. Defaults to true when absent.
	Colors *bool `json:"colors"`
	// BaseURL overrides the API endpoint.
	BaseURL string `json:"baseURL"`
}

// LoadConfig reads and parses the configuration file at the given path.
func LoadConfig(path string) (*Config, error) {
	resolved := ResolveHome(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration %s: %w", resolved, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration %s: %w", resolved, err)
	}

	cfg.Certificate = ResolveHome(cfg.Certificate)
	cfg.Key = ResolveHome(cfg.Key)
	cfg.CertificateAuthority = ResolveHome(cfg.CertificateAuthority)

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &cfg, nil
}

// Validate checks that the TLS material is configured and present on disk.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		path string
	}{
		{"certificate", c.Certificate},
		{"key", c.Key},
		{"certificate authority", c.CertificateAuthority},
	}

	for _, check := range checks {
		if check.path == "" {
			return fmt.Errorf("%s not provided", check.name)
		}
		if _, err := os.Stat(check.path); err != nil {
			return fmt.Errorf("%s %s does not exist", check.name, check.path)
		}
	}

	return nil
}

// ColorsEnabled reports whether console output should use colors.
func (c *Config) ColorsEnabled() bool {
	if c.Colors == nil {
		return true
	}
	return *c.Colors
}

// ResolveHome expands a leading "~" to the user's home directory.
func ResolveHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return home + strings.TrimPrefix(path, "~")
}
