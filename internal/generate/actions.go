package generate

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/fasty/pkg/corpus"
)

// Command returns the generate subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write lorem-ipsum text files to count against",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "data",
				Usage: "directory to write files into",
			},
			&cli.IntFlag{
				Name:  "files",
				Value: 16,
				Usage: "number of files to generate",
			},
			&cli.IntFlag{
				Name:  "words",
				Value: 100000,
				Usage: "words per file",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "random seed; 0 picks a random one",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Action: GenerateAction,
	}
}

// GenerateAction handles `fasty generate` and prints one generated path per line.
func GenerateAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: logLevel}))

	if c.Int("files") < 0 || c.Int("words") < 0 {
		return cli.Exit("--files and --words must not be negative", 1)
	}

	seed := c.Uint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}

	logger.Info("Generating corpus", "dir", c.String("dir"), "files", c.Int("files"), "words", c.Int("words"), "seed", seed)
	paths, err := corpus.NewGenerator(seed).WriteFiles(c.String("dir"), c.Int("files"), c.Int("words"))
	if err != nil {
		logger.Error("Failed to generate corpus", "error", err)
		return cli.Exit(fmt.Sprintf("generate failed: %s", err), 2)
	}

	for _, path := range paths {
		fmt.Fprintln(c.App.Writer, path)
	}
	return nil
}
