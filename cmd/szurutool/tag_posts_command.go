package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"szurutool/internal/tagger"
	"szurutool/internal/tags"
)

func newTagPostsCommand(ctx *commandContext) *cobra.Command {
	var scrapeURL string
	var addTags string
	var removeTags string
	var modeFlag string
	var updateImplications bool

	cmd := &cobra.Command{
		Use:   "tag-posts [flags] query",
		Short: "Add, remove, or overwrite tags on posts matching a query",
		Long: "Add, remove, or overwrite tags on posts matching a szurubooru search query.\n" +
			"The query is the last argument so it may contain leading dashes, for\n" +
			"example negated search terms like -tagme.",
		// The trailing query may start with a dash, so flags are parsed by
		// hand from everything before the final argument.
		DisableFlagParsing: true,
		Annotations:        map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if arg == "-h" || arg == "--help" {
					return cmd.Help()
				}
			}
			if len(args) == 0 {
				_ = cmd.Help()
				return errors.New("search query required")
			}

			query := args[len(args)-1]
			flagSet := cmd.Flags()
			flagSet.AddFlagSet(cmd.InheritedFlags())
			if err := flagSet.Parse(args[:len(args)-1]); err != nil {
				return err
			}
			if strings.TrimSpace(query) == "" {
				_ = cmd.Help()
				return errors.New("search query required")
			}

			mode, err := tagger.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			additions := tags.SplitCSV(addTags)
			removals := tags.SplitCSV(removeTags)
			if scrapeURL == "" && len(additions) == 0 && len(removals) == 0 && !updateImplications {
				_ = cmd.Help()
				return errors.New("nothing to do: pass --add-tags, --remove-tags, --url, or --update-implications")
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

			runner, err := tagger.NewRunner(booru, ctx.newScraper(cfg), logger)
			if err != nil {
				return err
			}

			update, stop := newProgress(cfg.TagPosts.HideProgress, "Tagging posts")
			defer stop()
			runner.OnProgress = update

			return runner.Run(cmd.Context(), tagger.Options{
				Query:              query,
				AddTags:            additions,
				RemoveTags:         removals,
				Mode:               mode,
				UpdateImplications: updateImplications,
				ScrapeURL:          scrapeURL,
			})
		},
	}

	cmd.Flags().StringVar(&scrapeURL, "url", "", "Post URL to scrape for a canonical tag set")
	cmd.Flags().StringVar(&addTags, "add-tags", "", "Comma-delimited tags to add")
	cmd.Flags().StringVar(&removeTags, "remove-tags", "", "Comma-delimited tags to remove")
	cmd.Flags().StringVar(&modeFlag, "mode", "append", "How additions combine with existing tags: append or overwrite")
	cmd.Flags().BoolVar(&updateImplications, "update-implications", false, "Expand each post's tags through the instance's tag implications")

	return cmd
}
