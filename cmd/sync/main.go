package main

import (
	"os"

	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/database"
	"github.com/huettenbuch/huettenbuch/pkg/migrations"
	"github.com/huettenbuch/huettenbuch/pkg/sync"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

// One-shot sync CLI for cron-less setups and for operating on a copy of
// the database without the API server running.
func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	app := &cli.App{
		Name:        "sync",
		Usage:       "CLI to run hut synchronization by hand",
		Description: "CLI to run hut synchronization by hand",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run one full sync against the remote system",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "hut-id", Usage: "hut to sync (defaults to configuration)"},
					&cli.IntFlag{Name: "months", Usage: "window length in months (defaults to configuration)"},
				},
				Action: func(c *cli.Context) error {
					if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
						return err
					}

					runner := sync.NewRunner(cfg, db)
					report, err := runner.Run(c.Context, c.Int("hut-id"), c.Int("months"))
					if err != nil {
						return err
					}

					log.Info("sync finished", logger.Data{
						"hut_id":               report.HutID,
						"fetched_reservations": report.FetchedReservations,
						"skipped_reservations": report.SkippedReservations,
						"merge_inserted":       report.Merge.Inserted,
						"merge_updated":        report.Merge.Updated,
						"merge_unchanged":      report.Merge.Unchanged,
						"quotas_inserted":      report.Quotas.Inserted,
						"quotas_updated":       report.Quotas.Updated,
						"quotas_deleted":       report.Quotas.Deleted,
					})
					return nil
				},
			},
			{
				Name:  "merge",
				Usage: "merge the staging table without fetching",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Usage: "classify rows without writing"},
					&cli.BoolFlag{Name: "keep-staging", Usage: "leave the staging table in place"},
				},
				Action: func(c *cli.Context) error {
					if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
						return err
					}

					reconciler := sync.NewReconciler(db)
					result, err := reconciler.MergeStaging(c.Context, sync.MergeOptions{
						DryRun:      c.Bool("dry-run"),
						KeepStaging: c.Bool("keep-staging"),
					})
					if err != nil {
						return err
					}

					log.Info("merge finished", logger.Data{
						"total":     result.Total,
						"inserted":  result.Inserted,
						"updated":   result.Updated,
						"unchanged": result.Unchanged,
						"errors":    len(result.Errors),
					})
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
