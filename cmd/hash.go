package cmd

import (
	"fmt"
	"io"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/server"
	"github.com/spf13/cobra"
)

func hashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash FILE...",
		Short: "Print the human readable hash of files",
		Long: `visual hash prints the same four words fingerprint visual serve logs for the content it
serves, so a page seen in the browser can be matched with a file.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := doHash(args, cmd.OutOrStdout()); err != nil {
				logger.Fatalf("Hash failed: %v", err)
			}
		},
	}
}

func doHash(paths []string, out io.Writer) error {
	for _, path := range paths {
		content, err := server.LoadContent(path)
		if err != nil {
			return err
		}

		if len(paths) == 1 {
			_, _ = fmt.Fprintln(out, content.Fingerprint())
			continue
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", content.Fingerprint(), path)
	}

	return nil
}
