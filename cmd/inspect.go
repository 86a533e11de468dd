package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/exec"
	"github.com/minispec/visual/pkg/preflight"
	"github.com/minispec/visual/pkg/source"
	"github.com/minispec/visual/pkg/visual"
	"github.com/spf13/cobra"
)

func inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [FILE|-]",
		Short: "Print the node hierarchy and geometry of a graph",
		Long: `visual inspect lays out a graph description and prints its node tree, followed by the
position and size of every node and the routing of every edge.

Use --no-layout to inspect a graph that was already laid out, such as the output of visual place.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := visual.InspectOpts{}
			hydrateOptsFromViper(&opts)

			if !opts.NoLayout {
				preflight.RunPreflightChecks(visual.RequiredCommands(opts.EngineOpts))
			}

			if err := doInspect(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logger.Fatalf("Inspect failed: %v", err)
			}
		},
	}

	cmd.Flags().StringP("graph", "g", "",
		"Graph description given inline, as JSON or YAML.")
	cmd.Flags().Bool("no-layout", false,
		"Print the graph as is, without running the layout engine.")

	return cmd
}

func doInspect(ctx context.Context, opts visual.InspectOpts, args []string, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	inputs, err := source.Resolve(source.Options{
		Inline:     opts.Graph,
		Paths:      args,
		Stdin:      stdin,
		StdinPiped: stdinPiped(stdin),
	})
	if err != nil {
		return err
	}

	if len(inputs) != 1 {
		return errors.New("inspect takes a single graph description")
	}

	engine, err := visual.NewEngine(opts.EngineOpts, exec.NewShellExecutor(workingDir, nil))
	if err != nil {
		return err
	}

	return visual.Inspect(ctx, engine, inputs[0], opts, stdout)
}
