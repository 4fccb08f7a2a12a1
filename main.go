package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/fasty/internal/count"
	"github.com/dtnitsch/fasty/internal/generate"
)

func main() {
	app := &cli.App{
		Name:  "fasty",
		Usage: "Count characters across text files, sequentially or in parallel",
		Commands: []*cli.Command{
			count.Command(),
			generate.Command(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
