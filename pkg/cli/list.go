package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of analyses to list, newest first (0 = all)",
			Value:       0,
			Sources:     cli.EnvVars("RADIQA_LIST_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List stored analyses",
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

			var analyses []*model.Analysis
			if limit > 0 {
				analyses, err = uc.Latest(ctx, int(limit))
			} else {
				analyses, err = uc.List(ctx)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to list analyses")
			}

			for _, a := range analyses {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					a.ID,
					a.CreatedAt.Format("2006-01-02 15:04"),
					a.ImageFilename(),
					strings.Join(a.Keywords, ", "),
				)
			}

			return nil
		},
	}
}
