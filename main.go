package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/OvercastCommunity/AutoPruner/anvil"
	"github.com/OvercastCommunity/AutoPruner/log"
	"github.com/OvercastCommunity/AutoPruner/nbt"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine; flags and the process environment still apply.
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "autopruner",
		Usage:     "remove empty chunks from region files",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "one of debug, info, warn, error",
				Value:   "info",
				EnvVars: []string{"AUTOPRUNER_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			pruneCommand(),
			infoCommand(),
			dumpCommand(),
		},
	}
}

func pruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "prune a region file or every region file under a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path of the .mca file to prune", EnvVars: []string{"AUTOPRUNER_FILE"}},
			&cli.StringFlag{Name: "directory", Aliases: []string{"d"}, Usage: "path of a directory containing .mca files", EnvVars: []string{"AUTOPRUNER_DIRECTORY"}},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "files pruned concurrently", EnvVars: []string{"AUTOPRUNER_WORKERS"}},
			&cli.IntFlag{Name: "max-depth", Usage: "directory levels to descend", Value: DefaultMaxDepth, EnvVars: []string{"AUTOPRUNER_MAX_DEPTH"}},
			&cli.BoolFlag{Name: "dry-run", Usage: "report what would be pruned without writing", EnvVars: []string{"AUTOPRUNER_DRY_RUN"}},
			&cli.BoolFlag{Name: "touch-timestamps", Usage: "set the timestamp of every rewritten slot to now"},
		},
		Action: runPrune,
	}
}

func configFromContext(c *cli.Context) (*Config, error) {
	cfg := NewDefaultConfig()
	cfg.File = c.String("file")
	cfg.Directory = c.String("directory")
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	cfg.MaxDepth = c.Int("max-depth")
	cfg.DryRun = c.Bool("dry-run")
	cfg.TouchTimestamps = c.Bool("touch-timestamps")

	level, err := log.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPrune(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	var logger log.Logger = log.NewStandardLogger(log.WithOutput(c.App.ErrWriter), log.WithLevel(cfg.LogLevel))
	pruner := NewPruner(logger, cfg)

	if cfg.File != "" {
		if _, err := pruner.PruneFile(cfg.File); err != nil {
			logger.WithField("file", cfg.File).Warn("Failed to prune file: %v", err)
			return err
		}
		return nil
	}

	results, err := NewDirectoryPruner(pruner, logger, cfg).Prune(c.Context, cfg.Directory)
	if abs, absErr := filepath.Abs(cfg.Directory); absErr == nil {
		logger = logger.WithField("directory", abs)
	}
	logger.WithField("files", len(results)).Info("Deleted %s", ReadableSize(Reclaimed(results)))
	return err
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "summarize the chunks of a region file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("info expects exactly one region file", 2)
			}
			region, err := anvil.Open(c.Args().First(), anvil.LoadOptions{SkipCorrupt: true})
			if err != nil {
				return err
			}
			return printInfo(c.App.Writer, region)
		},
	}
}

func printInfo(w io.Writer, region *anvil.Region) error {
	if _, err := fmt.Fprintf(w, "region %d,%d: %d chunks\n", region.X, region.Z, region.Count()); err != nil {
		return err
	}
	var err error
	region.Each(func(index int, chunk *anvil.Chunk) bool {
		x, z := chunk.Position()
		_, err = fmt.Fprintf(w, "  slot %4d chunk %d,%d: %d sections, %d entities, %d tile entities, special biomes %t, prunable %t\n",
			index, x, z, len(chunk.Sections()), listLen(chunk.Entities()), listLen(chunk.TileEntities()),
			chunk.HasSpecialBiomes(), Prunable(chunk))
		return err == nil
	})
	if err != nil {
		return err
	}
	for index := 0; index < anvil.SlotCount; index++ {
		if slotErr, ok := region.Corrupt()[index]; ok {
			if _, err := fmt.Fprintf(w, "  slot %4d corrupt: %v\n", index, slotErr); err != nil {
				return err
			}
		}
	}
	return nil
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print the tag tree of one chunk",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "chunk x coordinate, absolute or within the region", Required: true},
			&cli.IntFlag{Name: "z", Usage: "chunk z coordinate, absolute or within the region", Required: true},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("dump expects exactly one region file", 2)
			}
			region, err := anvil.Open(c.Args().First(), anvil.LoadOptions{})
			if err != nil {
				return err
			}
			chunk := region.ChunkAt(c.Int("x"), c.Int("z"))
			if chunk == nil {
				return fmt.Errorf("chunk %d,%d: %w", c.Int("x"), c.Int("z"), anvil.ErrNoChunk)
			}
			_, err = fmt.Fprintln(c.App.Writer, chunk.Data().String())
			return err
		},
	}
}

func listLen(l *nbt.List) int {
	if l == nil {
		return 0
	}
	return l.Len()
}
