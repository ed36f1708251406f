package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mangasearch/pkg/models"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or export the search history",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.listHistory(cmd)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}

	cmd.AddCommand(newHistoryExportCmd(a))
	cmd.AddCommand(newHistoryImportCmd(a))
	return cmd
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the search history to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.listHistory(cmd)
			if err != nil {
				return err
			}

			if out == "-" {
				return writeHistoryCSV(cmd.OutOrStdout(), entries)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := writeHistoryCSV(f, entries); err != nil {
				return err
			}
			a.logger.WithField("path", out).WithField("rows", len(entries)).Info("exported search history")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "data/search_history.csv", "output CSV path, - for stdout")
	return cmd
}

func (a *app) listHistory(cmd *cobra.Command) ([]models.HistoryEntry, error) {
	repo, closeFn, err := a.openHistory(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return repo.List(cmd.Context())
}

func printHistory(w io.Writer, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEARCH QUERY\tDATE SEARCHED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.SearchQuery, e.Timestamp.Local().Format(time.RFC1123))
	}
	return tw.Flush()
}

func writeHistoryCSV(w io.Writer, entries []models.HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "search_query", "timestamp"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.ID, e.SearchQuery, e.Timestamp.UTC().Format(time.RFC3339Nano)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
