package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	var (
		cfg       config
		inputPath string
		imagePath string
		filename  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to a text file containing an analysis report",
			Sources:     cli.EnvVars("RADIQA_INPUT"),
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "image",
			Usage:       "Path to a medical image to analyze with the vision model",
			Sources:     cli.EnvVars("RADIQA_IMAGE"),
			Destination: &imagePath,
		},
		&cli.StringFlag{
			Name:        "filename",
			Usage:       "Image filename to record (defaults to the input file name)",
			Destination: &filename,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, visionFlags(&cfg)...)

	return &cli.Command{
		Name:  "new",
		Usage: "Store a new analysis from report text or a medical image",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(); err != nil {
				return err
			}
			if inputPath == "" && imagePath == "" {
				return goerr.New("either input or image is required")
			}
			if inputPath != "" && imagePath != "" {
				return goerr.New("input and image are exclusive")
			}

			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			opts := []analysis.Option{}
			if imagePath != "" {
				gemini, err := cfg.newGemini(ctx)
				if err != nil {
					return err
				}
				opts = append(opts, analysis.WithGemini(gemini))
			}

			uc := analysis.New(repo, opts...)

			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return goerr.Wrap(err, "failed to read image file", goerr.Value("path", imagePath))
				}

				mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
				if mimeType == "" {
					mimeType = "application/octet-stream"
				}
				if filename == "" {
					filename = filepath.Base(imagePath)
				}

				a, err := uc.AnalyzeImage(ctx, data, mimeType, filename)
				if err != nil {
					return goerr.Wrap(err, "failed to analyze image")
				}

				fmt.Fprintf(c.Root().Writer, "Analysis created: %s\n", a.ID)
				return nil
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read input file", goerr.Value("path", inputPath))
			}
			if filename == "" {
				filename = filepath.Base(inputPath)
			}

			a, err := uc.Insert(ctx, string(data), filename)
			if err != nil {
				return goerr.Wrap(err, "failed to insert analysis")
			}

			fmt.Fprintf(c.Root().Writer, "Analysis created: %s\n", a.ID)
			return nil
		},
	}
}
