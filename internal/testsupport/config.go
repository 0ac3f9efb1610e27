package testsupport

import (
	"testing"

	"szurutool/internal/config"
)

// ConfigOption mutates a test config.
type ConfigOption func(*config.Config)

// WithSzurubooru points the config at a test instance.
func WithSzurubooru(url, username, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Szurubooru.URL = url
		cfg.Szurubooru.Username = username
		cfg.Szurubooru.APIToken = token
	}
}

// WithHistory enables the import history store at path.
func WithHistory(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = true
		cfg.History.Path = path
	}
}

// NewConfig returns a validated config rooted in per-test temp
// directories.
func NewConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Szurubooru.URL = "http://127.0.0.1:8080"
	cfg.Szurubooru.Username = "tester"
	cfg.Szurubooru.APIToken = "test-token"
	cfg.Import.TmpDir = t.TempDir()
	cfg.Logging.Dir = t.TempDir()
	cfg.History.Path = ""
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
