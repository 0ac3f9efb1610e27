package main

import (
	"errors"

	"github.com/spf13/cobra"

	"szurutool/internal/importer"
	"szurutool/internal/services/gallerydl"
)

func newImportURLCommand(ctx *commandContext) *cobra.Command {
	var rangeFlag string
	var inputFile string
	var cookiesPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "import-url [urls...]",
		Short: "Download media from supported sites and upload it to szurubooru",
		// Input validation must run before config loading so a missing URL
		// list reports usage rather than a config error.
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && inputFile == "" {
				_ = cmd.Help()
				return importer.ErrNoInput
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			booru, err := ctx.szuruClient(cfg)
			if err != nil {
				return err
			}
			uploader, err := ctx.newUploader(cfg, booru, logger)
			if err != nil {
				return err
			}

			var searcher importer.ArtistSearcher
			if client := ctx.danbooruClient(cfg); client != nil {
				searcher = client
			}
			normalizer := importer.NewNormalizer(searcher, cfg.Import.DefaultSafety, logger)

			store, err := ctx.historyStore(cfg)
			if err != nil {
				return err
			}
			var hist importer.HistoryStore
			if store != nil {
				hist = store
				defer store.Close()
			}

			downloader := gallerydl.NewCLI(gallerydl.WithBinary(cfg.Downloader.Binary))
			runner, err := importer.NewRunner(cfg, downloader, normalizer, uploader, hist, logger)
			if err != nil {
				return err
			}

			update, stop := newProgress(cfg.Import.HideProgress, "Importing files")
			defer stop()
			runner.OnProgress = update

			runErr := runner.Run(cmd.Context(), importer.Options{
				URLs:        args,
				InputFile:   inputFile,
				CookiesPath: cookiesPath,
				Range:       rangeFlag,
				Verbose:     verbose,
			})
			if errors.Is(runErr, importer.ErrNoInput) {
				_ = cmd.Help()
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&rangeFlag, "range", "", "Index range or slice of results to download (defaults to the configured range)")
	cmd.Flags().StringVar(&inputFile, "input-file", "", "File containing URLs to download, one per line")
	cmd.Flags().StringVar(&cookiesPath, "cookies", "", "Cookie file passed to the downloader")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show downloader output")

	return cmd
}
