package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/layout"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/tilemap"
)

// buildOpts holds flags for the build command.
type buildOpts struct {
	seed             uint64
	output           string
	maxAttempts      int
	maxGraphAttempts int
	verify           bool
	preview          bool
	refresh          bool
	quiet            bool
	backends         backendFlags
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build <level>",
		Short: "Lay out a dungeon from a level descriptor",
		Long: `Build lays out a dungeon from a level descriptor (.toml or .json) and writes
the layout as JSON.

A room graph is drawn at random from the level, then rooms are placed
breadth-first from the entrance. A failed attempt is retried on the same
graph up to --max-graph-attempts times before another graph is drawn, at
most --max-attempts times in total.

Layouts are cached by level content, seed and limits; pass --seed to make a
build reproducible.`,
		Example: `  # Build with a random seed
  dungeonforge build examples/levels/crypt.toml

  # Reproducible build with an ASCII preview
  dungeonforge build crypt.toml --seed 7 --preview

  # Verify the result and write to a custom path
  dungeonforge build crypt.toml --verify -o crypt.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <level>.layout.json)")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", pipeline.DefaultMaxBuildAttempts, "how many times a room graph is drawn")
	cmd.Flags().IntVar(&opts.maxGraphAttempts, "max-graph-attempts", pipeline.DefaultMaxRebuildAttempts, "retries per drawn room graph")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "check the layout for overlaps and broken joins")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "print an ASCII preview of the layout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the output path")
	opts.backends.register(cmd, true)

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	lvl, err := level.ReadFile(path)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".layout.json"
	}
	if err := errors.ValidatePath(out); err != nil {
		return err
	}
	rebuilds, err := rebuildLimit(opts.maxGraphAttempts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.backends)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if !opts.quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Building %s...", lvl.Name))
		spinner.Start()
	}
	prog := newProgress(logger)

	res, err := runner.Build(ctx, lvl, pipeline.Options{
		Seed:               opts.seed,
		MaxBuildAttempts:   opts.maxAttempts,
		MaxRebuildAttempts: rebuilds,
		Verify:             opts.verify,
		Refresh:            opts.refresh,
		Logger:             logger,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeBuildFailed) {
			printError("No layout found for %s", lvl.Name)
			printDetail("Try a different --seed, raise --max-graph-attempts, or run validate")
		}
		return err
	}
	prog.done("Built " + lvl.Name)

	if err := layout.WriteFile(res.Layout, out); err != nil {
		return err
	}

	if opts.quiet {
		fmt.Println(out)
		return nil
	}

	printSuccess("Built %s from graph %s (seed %d)", lvl.Name, res.Layout.Graph, res.Layout.Seed)
	printStats(len(res.Layout.Rooms), res.Stats.Attempts, res.CacheHit)
	printFile(out)

	if opts.preview {
		fmt.Println()
		fmt.Println(indent(tilemap.Stamp(res.Layout.RoomMap()).String(), 2))
		fmt.Println()
	}
	printNextStep("Browse rooms", "dungeonforge view "+out)
	return nil
}

// rebuildLimit maps --max-graph-attempts onto pipeline options, where zero
// would select the default.
func rebuildLimit(n int) (int, error) {
	switch {
	case n < 0:
		return 0, errors.New(errors.ErrCodeInvalidInput, "--max-graph-attempts must not be negative, got %d", n)
	case n == 0:
		return pipeline.NoRebuilds, nil
	}
	return n, nil
}
