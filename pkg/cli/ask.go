package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/usecase/room"
	"github.com/r-ahemad/radiqa/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg      config
		question string
		roomID   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "question",
			Aliases:     []string{"q"},
			Usage:       "Ask a single question and exit instead of starting a session",
			Sources:     cli.EnvVars("RADIQA_QUESTION"),
			Destination: &question,
		},
		&cli.StringFlag{
			Name:        "room",
			Aliases:     []string{"r"},
			Usage:       "Room ID to log the conversation to",
			Sources:     cli.EnvVars("RADIQA_ROOM_ID"),
			Destination: &roomID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ask",
		Usage: "Ask questions about stored analyses",
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

			var rooms *room.UseCase
			if roomID != "" {
				rooms = room.New(repo)
				if _, err := rooms.Get(ctx, model.RoomID(roomID)); err != nil {
					return goerr.Wrap(err, "failed to open room", goerr.Value("room", roomID))
				}
			}

			answer := func(q string) error {
				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()
				resp := engine.Ask(ctx, q)
				sp.Stop()

				if resp.Degraded {
					logging.From(ctx).Warn("degraded answer", "reason", resp.Reason)
				}
				fmt.Fprintf(c.Root().Writer, "%s\n", resp.Text)

				if rooms != nil {
					id := model.RoomID(roomID)
					if _, err := rooms.Post(ctx, id, "user", q); err != nil {
						return goerr.Wrap(err, "failed to log question")
					}
					if _, err := rooms.Post(ctx, id, model.SystemUser, resp.Text); err != nil {
						return goerr.Wrap(err, "failed to log answer")
					}
				}
				return nil
			}

			// One-shot mode
			if question != "" {
				return answer(question)
			}

			// Interactive session
			rl, err := readline.NewEx(&readline.Config{
				Prompt: "radiqa> ",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "QA session started. Type 'exit' to quit, 'clear' to reset history.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				switch line {
				case "":
					continue
				case "exit", "quit":
					fmt.Fprintf(c.Root().Writer, "\nQA session completed\n")
					return nil
				case "clear":
					fmt.Fprintf(c.Root().Writer, "%s\n", engine.ClearHistory())
					continue
				}

				if err := answer(line); err != nil {
					return err
				}
			}

			fmt.Fprintf(c.Root().Writer, "\nQA session completed\n")
			return nil
		},
	}
}
