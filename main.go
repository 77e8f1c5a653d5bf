package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/r-ahemad/radiqa/pkg/cli"
)

func main() {
	// A missing .env file is not an error; flags and the environment
	// still provide everything.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(err.Code)
	}
}
