package server

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/minispec/visual/internal/logger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Run reads the file at path and serves it until ctx is done. Instructions to reach the server
// through SSH are printed on out.
func Run(ctx context.Context, path string, opts ServeOpts, out io.Writer) error {
	content, err := LoadContent(path)
	if err != nil {
		return err
	}

	logger.Infof("Serving from file %s (%d bytes, %s)", path, len(content.Bytes()), content.Fingerprint())

	var watcher *Watcher
	if opts.Watch {
		watcher, err = NewWatcher(path, content, opts.Debounce)
		if err != nil {
			return err
		}
	}

	srv := NewServer(opts, content)

	errG, ctx := errgroup.WithContext(ctx)

	errG.Go(srv.Start)

	errG.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if watcher != nil {
		errG.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	select {
	case <-srv.Listening():
		port := opts.Port
		if addr, ok := srv.Addr().(*net.TCPAddr); ok {
			port = addr.Port
		}
		PrintInstructions(out, port)
	case <-ctx.Done():
	}

	return errG.Wait()
}
