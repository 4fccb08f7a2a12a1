package count

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/fasty/internal/common"
	"github.com/dtnitsch/fasty/models"
	"github.com/dtnitsch/fasty/pkg/analytics"
	"github.com/dtnitsch/fasty/pkg/counter"
	"github.com/dtnitsch/fasty/pkg/storage"
)

// ErrCountMismatch is returned in "both" mode when the aggregators disagree.
var ErrCountMismatch = errors.New("sequential and parallel counts differ")

// Command returns the count subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count occurrences of characters across text files",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "chars",
				Aliases: []string{"c"},
				Usage:   "characters to count; every character is one member of the match set",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: string(models.CountModeParallel),
				Usage: "aggregator to run: parallel, sequential or both",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   models.DefaultWorkerCount,
				Usage:   "number of parallel workers",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: string(models.FormatText),
				Usage: "output format: text, json or yaml",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file with paths, chars, workers, mode and format",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Action: CountAction,
	}
}

// CountAction handles `fasty count`.
func CountAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: logLevel})).
		With("run_id", uuid.NewString())

	config, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(config.Paths) == 0 {
		return cli.Exit("no files provided\n\nUsage:\n  fasty count --chars ac data/0.txt data/1.txt", 1)
	}

	output, err := run(logger, config)
	if err != nil {
		logger.Error("Count failed", "error", err)
		return cli.Exit(fmt.Sprintf("count failed: %s", err), 2)
	}

	if config.Format == models.FormatText {
		writeText(c.App.Writer, output)
		return nil
	}
	return common.WriteStructured(c.App.Writer, output, config.Format)
}

// buildConfig merges the optional config file with explicitly set flags.
func buildConfig(c *cli.Context) (*models.CountConfig, error) {
	config := &models.CountConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if c.IsSet("chars") || config.Chars == "" {
		config.Chars = c.String("chars")
	}
	if c.IsSet("workers") || config.Workers == 0 {
		config.Workers = c.Int("workers")
	}
	if c.IsSet("mode") || config.Mode == "" {
		config.Mode = models.CountMode(c.String("mode"))
	}
	if c.IsSet("format") || config.Format == "" {
		config.Format = models.OutputFormat(c.String("format"))
	}
	if c.NArg() > 0 {
		config.Paths = c.Args().Slice()
	}

	// Checked before defaults so an explicit --workers 0 is rejected.
	if config.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func run(logger *slog.Logger, config *models.CountConfig) (*FinalOutput, error) {
	set, err := analytics.ParseMatchSet(config.Chars)
	if err != nil {
		return nil, err
	}

	ctr := counter.New(counter.WithWorkers(config.Workers), counter.WithLogger(logger))
	output := &FinalOutput{
		Chars:   set.String(),
		Workers: ctr.Workers(),
		Files:   len(config.Paths),
	}

	logger.Info("Starting count", "files", len(config.Paths), "chars", set.String(), "mode", config.Mode, "workers", ctr.Workers())

	if config.Mode == models.CountModeSequential || config.Mode == models.CountModeBoth {
		result, err := ctr.CountSequential(config.Paths, set)
		if err != nil {
			return nil, err
		}
		logger.Info("Sequential count finished", "counts", result.Counts, "elapsed", result.Duration().String())
		output.Runs = append(output.Runs, runOutput(models.CountModeSequential, result))
	}

	if config.Mode == models.CountModeParallel || config.Mode == models.CountModeBoth {
		result, err := ctr.CountParallel(config.Paths, set)
		if err != nil {
			return nil, err
		}
		logger.Info("Parallel count finished", "counts", result.Counts, "elapsed", result.Duration().String())
		output.Runs = append(output.Runs, runOutput(models.CountModeParallel, result))
	}

	if len(output.Runs) == 2 && output.Runs[0].Counts != output.Runs[1].Counts {
		return nil, fmt.Errorf("%w: sequential=%d parallel=%d", ErrCountMismatch, output.Runs[0].Counts, output.Runs[1].Counts)
	}

	s := &storage.Storage{}
	for _, path := range config.Paths {
		stats, err := s.GetFileStats(path)
		if err != nil {
			logger.Warn("Failed to stat file", "path", path, "error", err)
			continue
		}
		output.TotalBytes += stats.SizeBytes
	}

	output.Status = "success"
	return output, nil
}

func runOutput(mode models.CountMode, result models.CountOutput) RunOutput {
	return RunOutput{
		Mode:      string(mode),
		Counts:    result.Counts,
		ElapsedUS: result.Elapsed,
	}
}

func writeText(w io.Writer, output *FinalOutput) {
	fmt.Fprintf(w, "Counted %q in %s files (%s)\n",
		output.Chars, humanize.Comma(int64(output.Files)), humanize.IBytes(uint64(output.TotalBytes)))
	for _, r := range output.Runs {
		elapsed := time.Duration(r.ElapsedUS) * time.Microsecond
		fmt.Fprintf(w, "  %-10s %s matches in %s\n", r.Mode, formatCount(r.Counts), elapsed)
	}
}

// formatCount groups digits with humanize unless the value does not fit int64.
func formatCount(n uint64) string {
	if n > math.MaxInt64 {
		return strconv.FormatUint(n, 10)
	}
	return humanize.Comma(int64(n))
}
