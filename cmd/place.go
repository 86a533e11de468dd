package cmd

import (
	"context"
	"io"
	"os"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/exec"
	"github.com/minispec/visual/pkg/preflight"
	"github.com/minispec/visual/pkg/source"
	"github.com/minispec/visual/pkg/strutil"
	"github.com/minispec/visual/pkg/visual"
	"github.com/spf13/cobra"
)

func placeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place [FILE|DIR|-]...",
		Short: "Compute the layout of graph descriptions",
		Long: `visual place reads graph descriptions and writes them back with positions and sizes for
every node, and sections for every edge.

The graph is read from --graph, from the files given as arguments ("-" is the standard input,
directories are searched for .json, .yaml and .yml files), from the standard input when it is
piped, or is the built-in sample graph otherwise.`,
		Example: `  visual place graph.json -o layout.json
  cat graph.json | visual place --pretty
  visual place --engine elkjs --elk-module ./elk.bundled.js graph.json
  visual place graphs/ --output-dir build/ --jobs 4 --archive s3://layouts/graphs.tar.gz`,
		Run: func(cmd *cobra.Command, args []string) {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := visual.PlaceOpts{}
			hydrateOptsFromViper(&opts)

			preflight.RunPreflightChecks(visual.RequiredCommands(opts.EngineOpts))

			if err := doPlace(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logger.Fatalf("Place failed: %v", err)
			}
		},
	}

	cmd.Flags().StringP("graph", "g", "",
		"Graph description given inline, as JSON or YAML. Takes precedence over files and standard input.")
	cmd.Flags().StringP("output", "o", "",
		`Where to write the layout: a file, "s3://bucket/key", or "-" for the standard output (default).`)
	cmd.Flags().String("output-dir", "",
		"Directory receiving one <name>.layout.json file per input. Required with several inputs.")
	cmd.Flags().Bool("pretty", false,
		"Indent the JSON output. Always on when writing to a terminal.")
	cmd.Flags().IntP("jobs", "j", 0,
		"Number of graphs laid out concurrently (default is the number of CPUs).")
	cmd.Flags().Bool("dot", false,
		"Print the Graphviz DOT text of the top level of each graph instead of laying it out.")
	cmd.Flags().String("archive", "",
		`Pack the layouts written to --output-dir into a .tar.gz file or "s3://bucket/key.tar.gz" object.`)
	cmd.Flags().StringSlice("exclude", nil,
		"Ignore pattern for files found in input directories, in addition to their .visualignore file.")

	return cmd
}

func doPlace(ctx context.Context, opts visual.PlaceOpts, args []string, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	inputs, err := source.Resolve(source.Options{
		Inline:     opts.Graph,
		Paths:      strutil.DedupeStrSlice(args),
		Exclude:    opts.Exclude,
		Stdin:      stdin,
		StdinPiped: stdinPiped(stdin),
	})
	if err != nil {
		return err
	}

	engine, err := visual.NewEngine(opts.EngineOpts, exec.NewShellExecutor(workingDir, nil))
	if err != nil {
		return err
	}

	return visual.Place(ctx, engine, inputs, opts, stdout)
}

// stdinPiped reports whether stdin carries a graph description. Readers other than the
// process standard input are always read.
func stdinPiped(stdin io.Reader) func() bool {
	if f, ok := stdin.(*os.File); ok && f == os.Stdin {
		return source.StdinPiped
	}

	return func() bool { return true }
}
