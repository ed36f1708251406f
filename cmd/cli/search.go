package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mangasearch/internal/history"
	"mangasearch/internal/manga"
	"mangasearch/internal/mangadex"
	"mangasearch/pkg/models"
)

func newSearchCmd(a *app) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Look up a manga title and print its details",
		Example: `  mangasearch search "Yotsuba to!"
  mangasearch search berserk --no-history`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return err
			}
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("title must not be blank")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			if !noHistory {
				repo, closeFn, err := a.openHistory(ctx)
				if err != nil {
					return err
				}
				_, recErr := history.NewService(repo, nil).Record(ctx, query)
				closeFn()
				if recErr != nil {
					a.logger.WithError(recErr).Warn("record search history")
				}
			}

			catalog := mangadex.NewClient(mangadex.Options{
				BaseURL:       a.cfg.Catalog.BaseURL,
				Timeout:       a.cfg.Catalog.Timeout,
				RatePerSecond: a.cfg.Catalog.Rate,
				Burst:         a.cfg.Catalog.Burst,
				UserAgent:     "mangasearch-cli/1.0",
			})
			svc := manga.NewService(catalog, manga.Normalizer{CoverBaseURL: a.cfg.Catalog.CoverBaseURL}, a.logger)

			model, err := svc.Lookup(ctx, query)
			printModel(cmd.OutOrStdout(), model)
			return err
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this search")
	return cmd
}

func printModel(w io.Writer, m models.DisplayModel) {
	fmt.Fprintf(w, "Title:       %s\n", m.Title)
	fmt.Fprintf(w, "Author:      %s\n", m.Author)
	fmt.Fprintf(w, "Rating:      %s\n", m.Rating)
	if m.CoverImageURL != "" {
		fmt.Fprintf(w, "Cover:       %s\n", m.CoverImageURL)
	}
	fmt.Fprintf(w, "Description: %s\n", m.Description)
}
