package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/server"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a file over HTTP",
		Long: `visual serve reads FILE once and serves its content for every request, whatever the
path, until interrupted.

The server listens on localhost only. To view the page from another machine, forward the port
through your SSH session: the instructions are printed at startup.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bindPFlagsSnakeCase(cmd.Flags())

			opts := server.ServeOpts{}
			hydrateOptsFromViper(&opts)

			if err := doServe(cmd.Context(), opts, args[0], cmd.OutOrStdout()); err != nil {
				logger.Fatalf("Serve failed: %v", err)
			}
		},
	}

	cmd.Flags().String("host", server.DefaultHost,
		"Host the server listens on.")
	cmd.Flags().IntP("port", "p", server.DefaultPort,
		"Port the server listens on.")
	cmd.Flags().String("content-type", server.DefaultContentType,
		"Content type of the served file.")
	cmd.Flags().BoolP("watch", "w", false,
		"Reload the file each time it is rewritten.")
	cmd.Flags().Duration("debounce", server.DefaultDebounce,
		"Quiet period after a change before the file is reloaded, with --watch.")

	return cmd
}

func doServe(ctx context.Context, opts server.ServeOpts, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, path, opts, out)
}
