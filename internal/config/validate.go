package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSzurubooru(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateSauceNAO(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSzurubooru() error {
	if c.Szurubooru.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/szurutool/config.toml"
		}
		return fmt.Errorf("szurubooru.url is required. Edit %s (create with 'szurutool config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Szurubooru.URL, "http://") && !strings.HasPrefix(c.Szurubooru.URL, "https://") {
		return errors.New("szurubooru.url must start with http:// or https://")
	}
	return nil
}

func (c *Config) validateImport() error {
	switch c.Import.DefaultSafety {
	case "safe", "sketchy", "unsafe":
	default:
		return fmt.Errorf("import.default_safety must be safe, sketchy, or unsafe (got %q)", c.Import.DefaultSafety)
	}
	if c.Downloader.TimeoutSeconds <= 0 {
		return errors.New("downloader.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSauceNAO() error {
	if c.SauceNAO.Enabled && c.SauceNAO.APIKey == "" {
		return errors.New("saucenao.api_key must be set when saucenao.enabled is true (or set SAUCENAO_API_KEY)")
	}
	if c.SauceNAO.MinSimilarity < 0 || c.SauceNAO.MinSimilarity > 100 {
		return errors.New("saucenao.min_similarity must be between 0 and 100")
	}
	return nil
}
