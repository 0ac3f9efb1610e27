package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"szurutool/internal/config"
	"szurutool/internal/history"
	"szurutool/internal/importer"
	"szurutool/internal/logging"
	"szurutool/internal/services/danbooru"
	"szurutool/internal/services/gelbooru"
	"szurutool/internal/services/pixiv"
	"szurutool/internal/services/saucenao"
	"szurutool/internal/services/szuru"
	"szurutool/internal/tagger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) szuruClient(cfg *config.Config) (*szuru.Client, error) {
	return szuru.New(cfg.Szurubooru.URL, cfg.Szurubooru.Username, cfg.Szurubooru.APIToken)
}

func (c *commandContext) danbooruClient(cfg *config.Config) *danbooru.Client {
	client, err := danbooru.New(cfg.Danbooru.BaseURL, cfg.Danbooru.Username, cfg.Danbooru.APIKey)
	if err != nil {
		return nil
	}
	return client
}

func (c *commandContext) gelbooruClient(cfg *config.Config) *gelbooru.Client {
	client, err := gelbooru.New(cfg.Gelbooru.BaseURL, cfg.Gelbooru.Username, cfg.Gelbooru.APIKey)
	if err != nil {
		return nil
	}
	return client
}

func (c *commandContext) pixivClient(cfg *config.Config) *pixiv.Client {
	if strings.TrimSpace(cfg.Pixiv.RefreshToken) == "" {
		return nil
	}
	client, err := pixiv.New(cfg.Pixiv.RefreshToken)
	if err != nil {
		return nil
	}
	return client
}

func (c *commandContext) saucenaoClient(cfg *config.Config) *saucenao.Client {
	if !cfg.SauceNAO.Enabled {
		return nil
	}
	client, err := saucenao.New(cfg.SauceNAO.APIKey)
	if err != nil {
		return nil
	}
	return client
}

// newUploader wires the szurubooru uploader with every lookup client the
// config enables. The interface fields tolerate nil typed pointers, so
// absent clients are passed through untyped.
func (c *commandContext) newUploader(cfg *config.Config, booru *szuru.Client, logger *slog.Logger) (importer.Uploader, error) {
	return importer.NewSzuruUploader(c.uploaderOptions(cfg, booru, logger))
}

func (c *commandContext) uploaderOptions(cfg *config.Config, booru *szuru.Client, logger *slog.Logger) importer.SzuruUploaderOptions {
	opts := importer.SzuruUploaderOptions{
		Booru:         booru,
		MinSimilarity: cfg.SauceNAO.MinSimilarity,
		Logger:        logger,
	}
	// Deepbooru instances tag uploads on the server side; reverse image
	// search would duplicate their work.
	if cfg.Import.AutoTag && !cfg.Import.DeepbooruEnabled {
		if client := c.saucenaoClient(cfg); client != nil {
			opts.ReverseSearch = client
		}
	}
	if client := c.danbooruClient(cfg); client != nil {
		opts.Danbooru = client
	}
	if client := c.gelbooruClient(cfg); client != nil {
		opts.Gelbooru = client
	}
	if client := c.pixivClient(cfg); client != nil {
		opts.Pixiv = client
	}
	return opts
}

func (c *commandContext) historyStore(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled || strings.TrimSpace(cfg.History.Path) == "" {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

func (c *commandContext) newScraper(cfg *config.Config) *tagger.Scraper {
	opts := tagger.ScraperOptions{}
	if client := c.danbooruClient(cfg); client != nil {
		opts.Danbooru = client
	}
	if client := c.gelbooruClient(cfg); client != nil {
		opts.Gelbooru = client
	}
	if client := c.pixivClient(cfg); client != nil {
		opts.Pixiv = client
	}
	return tagger.NewScraper(opts)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
