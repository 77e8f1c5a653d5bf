package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:  "stats",
		Usage: "Show keyword statistics across stored analyses",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := analysis.New(repo)

			stats, err := uc.Stats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to compute statistics")
			}

			fmt.Fprintf(c.Root().Writer, "%s", stats.Render())
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	var (
		cfg     config
		dataset string
		table   string
		limit   int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Usage:       "BigQuery dataset for exported analyses",
			Value:       "radiqa",
			Sources:     cli.EnvVars("RADIQA_BQ_DATASET"),
			Destination: &dataset,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "BigQuery table for exported analyses",
			Value:       "analyses",
			Sources:     cli.EnvVars("RADIQA_BQ_TABLE"),
			Destination: &table,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Number of keyword counts to report after export",
			Value:       10,
			Sources:     cli.EnvVars("RADIQA_BQ_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export stored analyses to BigQuery",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if cfg.project == "" {
				return goerr.New("project is required")
			}

			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			bq, err := adapter.NewBigQuery(ctx, cfg.project, dataset, table)
			if err != nil {
				return goerr.Wrap(err, "failed to create bigquery adapter")
			}

			uc := analysis.New(repo)

			n, err := uc.Export(ctx, bq)
			if err != nil {
				return goerr.Wrap(err, "failed to export analyses")
			}
			fmt.Fprintf(c.Root().Writer, "Exported %d analyses to %s.%s\n", n, dataset, table)

			counts, err := uc.ExportedStats(ctx, bq, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to query keyword counts")
			}
			for _, kc := range counts {
				fmt.Fprintf(c.Root().Writer, "%s\t%d\n", kc.Keyword, kc.Count)
			}

			return nil
		},
	}
}
