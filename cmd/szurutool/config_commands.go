package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"szurutool/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set szurubooru.url and szurubooru.api_token (or export SZURUBOORU_API_TOKEN) before importing.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration at %s is valid.\n", path)
			} else {
				fmt.Fprintf(out, "No configuration file found; defaults are valid. Run `szurutool config init` to create %s.\n", path)
			}
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows := [][]string{
				{"szurubooru.url", cfg.Szurubooru.URL},
				{"szurubooru.username", cfg.Szurubooru.Username},
				{"szurubooru.api_token", redact(cfg.Szurubooru.APIToken)},
				{"import.tmp_dir", cfg.Import.TmpDir},
				{"import.default_range", cfg.Import.DefaultRange},
				{"import.default_safety", cfg.Import.DefaultSafety},
				{"import.auto_tag", strconv.FormatBool(cfg.Import.AutoTag)},
				{"downloader.binary", cfg.Downloader.Binary},
				{"downloader.timeout_seconds", strconv.Itoa(cfg.Downloader.TimeoutSeconds)},
				{"history.enabled", strconv.FormatBool(cfg.History.Enabled)},
				{"history.path", cfg.History.Path},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"logging.dir", cfg.Logging.Dir},
				{"danbooru.user", cfg.Danbooru.Username},
				{"danbooru.api_key", redact(cfg.Danbooru.APIKey)},
				{"gelbooru.user", cfg.Gelbooru.Username},
				{"gelbooru.api_key", redact(cfg.Gelbooru.APIKey)},
				{"pixiv.refresh_token", redact(cfg.Pixiv.RefreshToken)},
				{"saucenao.enabled", strconv.FormatBool(cfg.SauceNAO.Enabled)},
				{"saucenao.api_key", redact(cfg.SauceNAO.APIKey)},
				{"saucenao.min_similarity", strconv.FormatFloat(cfg.SauceNAO.MinSimilarity, 'f', 1, 64)},
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration from %s\n", path)
			} else {
				fmt.Fprintln(out, "Built-in defaults (no configuration file found)")
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func redact(secret string) string {
	if strings.TrimSpace(secret) == "" {
		return ""
	}
	return "********"
}
