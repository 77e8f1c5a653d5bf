package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/usecase/room"
	"github.com/urfave/cli/v3"
)

func roomsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rooms",
		Usage: "Manage QA chat rooms",
		Commands: []*cli.Command{
			roomsCreateCommand(),
			roomsListCommand(),
			roomsLogCommand(),
			roomsDeleteCommand(),
		},
	}
}

func roomsCreateCommand() *cli.Command {
	var (
		cfg     config
		creator string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "creator",
			Aliases:     []string{"u"},
			Usage:       "User name recorded as the room creator",
			Value:       "user",
			Sources:     cli.EnvVars("RADIQA_USER"),
			Destination: &creator,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new QA room",
		ArgsUsage: "<room-name>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if c.Args().Len() == 0 {
				return goerr.New("room name is required")
			}
			name := c.Args().Get(0)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			r, err := room.New(repo).Create(ctx, creator, name)
			if err != nil {
				return goerr.Wrap(err, "failed to create room")
			}

			fmt.Fprintf(c.Root().Writer, "Room created: %s\n", r.ID)
			return nil
		},
	}
}

func roomsListCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:  "list",
		Usage: "List QA rooms",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			rooms, err := room.New(repo).List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list rooms")
			}

			for _, r := range rooms {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					r.ID,
					r.Name,
					r.Creator,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}

			return nil
		},
	}
}

func roomsLogCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Number of recent messages to show",
			Value:       int64(room.DefaultMessageLimit),
			Sources:     cli.EnvVars("RADIQA_ROOM_LOG_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "log",
		Usage:     "Show recent messages in a room",
		ArgsUsage: "<room-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if c.Args().Len() == 0 {
				return goerr.New("room-id is required")
			}
			roomID := model.RoomID(c.Args().Get(0))

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			messages, err := room.New(repo).Messages(ctx, roomID, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list messages")
			}

			if len(messages) == 0 {
				fmt.Fprintf(c.Root().Writer, "No messages in room %s\n", roomID)
				return nil
			}

			for _, m := range messages {
				fmt.Fprintf(c.Root().Writer, "[%s] %s: %s\n",
					m.CreatedAt.Format("2006-01-02 15:04:05"),
					m.User,
					m.Content,
				)
			}

			return nil
		},
	}
}

func roomsDeleteCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a room and its messages",
		ArgsUsage: "<room-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if c.Args().Len() == 0 {
				return goerr.New("room-id is required")
			}
			roomID := model.RoomID(c.Args().Get(0))

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			if err := room.New(repo).Delete(ctx, roomID); err != nil {
				return goerr.Wrap(err, "failed to delete room")
			}

			fmt.Fprintf(c.Root().Writer, "Room deleted: %s\n", roomID)
			return nil
		},
	}
}
