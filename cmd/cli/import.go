package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mangasearch/pkg/models"
)

func newHistoryImportCmd(a *app) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append entries from a CSV produced by history export",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := readHistoryCSV(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}

			ctx := cmd.Context()
			repo, closeFn, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			existing, err := repo.List(ctx)
			if err != nil {
				return err
			}
			seen := make(map[string]struct{}, len(existing))
			for _, e := range existing {
				seen[e.ID] = struct{}{}
			}

			imported := 0
			for _, e := range entries {
				if _, ok := seen[e.ID]; ok {
					continue
				}
				if err := repo.Insert(ctx, e); err != nil {
					return err
				}
				seen[e.ID] = struct{}{}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d entries\n", imported, len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "data/search_history.csv", "input CSV path")
	return cmd
}

// readHistoryCSV parses rows of id,search_query,timestamp. Rows without a
// query or with an unparseable timestamp are rejected; a missing id gets a
// fresh one.
func readHistoryCSV(src io.Reader) ([]models.HistoryEntry, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.HistoryEntry
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		query := rawValueAt(header, row, "search_query")
		if query == "" {
			return nil, fmt.Errorf("line %d: search_query required", line)
		}
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rawValueAt(header, row, "timestamp")))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse timestamp: %w", line, err)
		}
		id := strings.TrimSpace(rawValueAt(header, row, "id"))
		if id == "" {
			id = uuid.NewString()
		}

		out = append(out, models.HistoryEntry{ID: id, SearchQuery: query, Timestamp: ts.UTC()})
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

// rawValueAt does not trim: search queries are stored exactly as typed.
func rawValueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
