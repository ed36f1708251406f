package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mangasearch/internal/history"
	"mangasearch/pkg/database"
	"mangasearch/pkg/utils"
)

// app is the state shared by subcommands, filled in PersistentPreRunE
// (config is read from .env, CONFIG_PATH and the environment).
type app struct {
	cfg    *utils.Config
	logger *logrus.Logger
	dsn    string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "mangasearch",
		Short:        "Search MangaDex and browse your search history from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = utils.NewLogger(cfg.Log)
			if a.dsn == "" {
				a.dsn = cfg.DB.DSN
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.dsn, "db", "", "history database (SQLite path or postgres:// URL)")

	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	return cmd
}

// openHistory opens and migrates the history database. The returned func
// closes it.
func (a *app) openHistory(ctx context.Context) (*history.Repo, func(), error) {
	dbCfg := database.Config{DSN: a.dsn}
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db, dbCfg.Dialect()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	return history.NewRepo(db, dbCfg.Dialect()), func() { _ = db.Close() }, nil
}
