package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

// graphOpts holds flags for the graph command.
type graphOpts struct {
	format string
	outDir string
	name   string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <level>",
		Short: "Render the room graphs of a level",
		Long: `Graph writes each room graph of a level as Graphviz DOT or SVG, one file per
graph named <level>.<graph>.<format>.`,
		Example: `  dungeonforge graph crypt.toml
  dungeonforge graph crypt.toml --format dot --graph main -d out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatSVG, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.outDir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVar(&opts.name, "graph", "", "render only this graph")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	if err := pipeline.ValidateGraphFormat(opts.format); err != nil {
		return err
	}
	lvl, err := level.ReadFile(path)
	if err != nil {
		return err
	}

	names := []string{opts.name}
	if opts.name == "" {
		names = names[:0]
		for _, g := range lvl.Graphs {
			names = append(names, g.Name)
		}
	}
	if len(names) == 0 {
		printWarning("%s has no room graphs", lvl.Name)
		return nil
	}

	runner := pipeline.NewRunner(nil, nil, nil, loggerFromContext(cmd.Context()))
	defer runner.Close()

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.outDir, err)
	}

	printSuccess("Rendering %d room graphs", len(names))
	for _, name := range names {
		data, err := runner.RenderGraph(cmd.Context(), lvl, name, opts.format)
		if err != nil {
			return err
		}
		out := filepath.Join(opts.outDir, graphFilename(lvl.Name, name, opts.format))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	return nil
}

// graphFilename returns "<level>.<graph>.<format>" with path separators
// replaced.
func graphFilename(lvl, graph, format string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", " ", "_")
	return clean.Replace(lvl) + "." + clean.Replace(graph) + "." + format
}
