package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "radiqa",
		Usage: "Medical imaging report QA assistant",
		Commands: []*cli.Command{
			newCommand(),
			askCommand(),
			searchCommand(),
			listCommand(),
			showCommand(),
			deleteCommand(),
			statsCommand(),
			exportCommand(),
			reportCommand(),
			roomsCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
