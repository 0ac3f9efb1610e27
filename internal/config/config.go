package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"szurutool/internal/sites"
)

//go:embed sample_config.toml
var sampleConfig string

// Szurubooru contains connection settings for the target booru instance.
type Szurubooru struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	APIToken string `toml:"api_token"`
}

// Import contains configuration for the URL import pipeline.
type Import struct {
	TmpDir           string `toml:"tmp_dir"`
	DefaultRange     string `toml:"default_range"`
	DefaultSafety    string `toml:"default_safety"`
	HideProgress     bool   `toml:"hide_progress"`
	DeepbooruEnabled bool   `toml:"deepbooru_enabled"`
	AutoTag          bool   `toml:"auto_tag"`
}

// Downloader contains settings for the external gallery-dl invocation.
type Downloader struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// History contains configuration for the import archive database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// BooruAccount holds credentials for a booru that authenticates with an
// API key (Danbooru, Gelbooru).
type BooruAccount struct {
	Username string `toml:"user"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// SiteAccount holds username/password credentials for sites the downloader
// logs into directly.
type SiteAccount struct {
	Username string `toml:"user"`
	Password string `toml:"password"`
}

// Pixiv contains the app-API refresh token.
type Pixiv struct {
	RefreshToken string `toml:"refresh_token"`
}

// SauceNAO contains reverse-image-search settings.
type SauceNAO struct {
	Enabled       bool    `toml:"enabled"`
	APIKey        string  `toml:"api_key"`
	MinSimilarity float64 `toml:"min_similarity"`
}

// TagPosts contains configuration for the tag pipeline.
type TagPosts struct {
	HideProgress bool `toml:"hide_progress"`
}

// Config encapsulates all configuration values for szurutool.
//
// Configuration sections by subsystem:
//   - Szurubooru: target instance URL and token auth
//   - Import: temp directory, range and safety defaults, auto-tag toggles
//   - Downloader: gallery-dl binary and timeout
//   - History: optional archive of already-imported sources
//   - Logging: log format, level, and directory
//   - Danbooru/Gelbooru/Sankaku/Konachan/Yandere: per-site credentials
//   - Pixiv: app-API refresh token
//   - SauceNAO: reverse-image search key and thresholds
//   - TagPosts: tag pipeline output settings
type Config struct {
	Szurubooru Szurubooru   `toml:"szurubooru"`
	Import     Import       `toml:"import"`
	Downloader Downloader   `toml:"downloader"`
	History    History      `toml:"history"`
	Logging    Logging      `toml:"logging"`
	Danbooru   BooruAccount `toml:"danbooru"`
	Gelbooru   BooruAccount `toml:"gelbooru"`
	Sankaku    SiteAccount  `toml:"sankaku"`
	Konachan   SiteAccount  `toml:"konachan"`
	Yandere    SiteAccount  `toml:"yandere"`
	Pixiv      Pixiv        `toml:"pixiv"`
	SauceNAO   SauceNAO     `toml:"saucenao"`
	TagPosts   TagPosts     `toml:"tag_posts"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/szurutool/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	// Best-effort .env so secrets can live next to the working directory.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("szurutool.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Import.TmpDir, c.Logging.Dir}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SiteCredentials returns the configured username/password pair the
// downloader should use for the given site. Sites without credential support
// return empty values; the "none" placeholder passes through untouched and
// is filtered at dispatch time.
func (c *Config) SiteCredentials(site sites.Site) (string, string) {
	switch site {
	case sites.Sankaku:
		return c.Sankaku.Username, c.Sankaku.Password
	case sites.Danbooru:
		return c.Danbooru.Username, c.Danbooru.APIKey
	case sites.Gelbooru:
		return c.Gelbooru.Username, c.Gelbooru.APIKey
	case sites.Konachan:
		return c.Konachan.Username, c.Konachan.Password
	case sites.Yandere:
		return c.Yandere.Username, c.Yandere.Password
	}
	return "", ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
