package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSzurubooru()
	c.normalizeImport()
	c.normalizeLookups()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Import.TmpDir) == "" {
		c.Import.TmpDir = defaultTmpDir
	}
	if c.Import.TmpDir, err = expandPath(c.Import.TmpDir); err != nil {
		return fmt.Errorf("import.tmp_dir: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSzurubooru() {
	c.Szurubooru.URL = strings.TrimRight(strings.TrimSpace(c.Szurubooru.URL), "/")
	c.Szurubooru.Username = strings.TrimSpace(c.Szurubooru.Username)
	c.Szurubooru.APIToken = strings.TrimSpace(c.Szurubooru.APIToken)
	if c.Szurubooru.APIToken == "" {
		if value, ok := os.LookupEnv("SZURUBOORU_API_TOKEN"); ok {
			c.Szurubooru.APIToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeImport() {
	c.Import.DefaultRange = strings.TrimSpace(c.Import.DefaultRange)
	if c.Import.DefaultRange == "" {
		c.Import.DefaultRange = defaultRange
	}
	c.Import.DefaultSafety = strings.ToLower(strings.TrimSpace(c.Import.DefaultSafety))
	if c.Import.DefaultSafety == "" {
		c.Import.DefaultSafety = defaultSafety
	}
	c.Downloader.Binary = strings.TrimSpace(c.Downloader.Binary)
	if c.Downloader.Binary == "" {
		c.Downloader.Binary = defaultDownloaderBinary
	}
	if c.Downloader.TimeoutSeconds <= 0 {
		c.Downloader.TimeoutSeconds = defaultDownloadTimeout
	}
}

func (c *Config) normalizeLookups() {
	c.Danbooru.BaseURL = strings.TrimRight(strings.TrimSpace(c.Danbooru.BaseURL), "/")
	if c.Danbooru.BaseURL == "" {
		c.Danbooru.BaseURL = defaultDanbooruBaseURL
	}
	c.Gelbooru.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gelbooru.BaseURL), "/")
	if c.Gelbooru.BaseURL == "" {
		c.Gelbooru.BaseURL = defaultGelbooruBaseURL
	}
	if c.Danbooru.APIKey == "" {
		if value, ok := os.LookupEnv("DANBOORU_API_KEY"); ok {
			c.Danbooru.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Gelbooru.APIKey == "" {
		if value, ok := os.LookupEnv("GELBOORU_API_KEY"); ok {
			c.Gelbooru.APIKey = strings.TrimSpace(value)
		}
	}
	c.Pixiv.RefreshToken = strings.TrimSpace(c.Pixiv.RefreshToken)
	if c.Pixiv.RefreshToken == "" {
		if value, ok := os.LookupEnv("PIXIV_REFRESH_TOKEN"); ok {
			c.Pixiv.RefreshToken = strings.TrimSpace(value)
		}
	}
	c.SauceNAO.APIKey = strings.TrimSpace(c.SauceNAO.APIKey)
	if c.SauceNAO.APIKey == "" {
		if value, ok := os.LookupEnv("SAUCENAO_API_KEY"); ok {
			c.SauceNAO.APIKey = strings.TrimSpace(value)
		}
	}
	if c.SauceNAO.MinSimilarity <= 0 {
		c.SauceNAO.MinSimilarity = defaultMinSimilarity
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
