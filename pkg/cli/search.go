package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg   config
		query string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language query to search stored analyses",
			Sources:     cli.EnvVars("RADIQA_SEARCH_QUERY"),
			Destination: &query,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of analyses to return",
			Value:       3,
			Sources:     cli.EnvVars("RADIQA_SEARCH_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search stored analyses by embedding similarity",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			ctx = logging.With(ctx, logging.New(cfg.logLevel, c.Root().ErrWriter))

			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			engine := cfg.newEngine(repo)

			contexts, err := engine.Retrieve(ctx, query, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to search analyses")
			}

			if len(contexts) == 0 {
				fmt.Fprintf(c.Root().Writer, "No matching analyses found\n")
				return nil
			}

			for i, text := range contexts {
				if i > 0 {
					fmt.Fprintf(c.Root().Writer, "---\n")
				}
				fmt.Fprintf(c.Root().Writer, "%s\n", text)
			}

			return nil
		},
	}
}
