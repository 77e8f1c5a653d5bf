package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
	"github.com/r-ahemad/radiqa/pkg/usecase/report"
	"github.com/urfave/cli/v3"
)

func reportCommand() *cli.Command {
	var cfg config

	flags := storageFlags(&cfg)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "report",
		Usage:     "Render a markdown report for an analysis, optionally archiving it",
		ArgsUsage: "<analysis-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if c.Args().Len() == 0 {
				return goerr.New("analysis-id is required")
			}
			analysisID := model.AnalysisID(c.Args().Get(0))

			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			// Without a bucket the report goes to stdout.
			if cfg.bucket == "" {
				a, err := analysis.New(repo).Show(ctx, analysisID)
				if err != nil {
					return goerr.Wrap(err, "failed to load analysis")
				}
				fmt.Fprintf(c.Root().Writer, "%s", report.Render(a))
				return nil
			}

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			key, err := report.New(repo, storage).Generate(ctx, analysisID)
			if err != nil {
				return goerr.Wrap(err, "failed to generate report")
			}

			fmt.Fprintf(c.Root().Writer, "Report archived: gs://%s/%s\n", cfg.bucket, key)
			return nil
		},
	}
}
