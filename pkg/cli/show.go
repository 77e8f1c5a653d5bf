package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:      "show",
		Usage:     "Show detailed information of a specific analysis",
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

			uc := analysis.New(repo)

			a, err := uc.Show(ctx, analysisID)
			if err != nil {
				return goerr.Wrap(err, "failed to show analysis")
			}

			data, err := json.MarshalIndent(a, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal analysis")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", string(data))
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a stored analysis",
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

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := analysis.New(repo)

			if err := uc.Delete(ctx, analysisID); err != nil {
				return goerr.Wrap(err, "failed to delete analysis")
			}

			fmt.Fprintf(c.Root().Writer, "Analysis deleted: %s\n", analysisID)
			return nil
		},
	}
}
