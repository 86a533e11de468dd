package visual

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/sink"
)

// Bundle packs files into a gzipped tarball at target, a local path or an "s3://bucket/key"
// URL. The name of target must end with .tar.gz or .tgz.
func Bundle(ctx context.Context, files []string, target string) error {
	local := target

	if sink.IsS3URL(target) {
		tmp, err := os.MkdirTemp("", "visual-archive-")
		if err != nil {
			return err
		}

		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				logger.Errorf("can't remove directory %s: %v", tmp, err)
			}
		}()

		local = filepath.Join(tmp, path.Base(target))
	}

	tarGzArchiver := archiver.TarGz{
		Tar: &archiver.Tar{
			OverwriteExisting:      true,
			MkdirAll:               true,
			ImplicitTopLevelFolder: false,
			ContinueOnError:        false,
		},
		CompressionLevel: gzip.BestCompression,
	}

	if err := tarGzArchiver.Archive(files, local); err != nil {
		return fmt.Errorf("can't create tar archive %s: %w", target, err)
	}

	logger.Infof("Archived %d layouts into %s", len(files), target)

	if local == target {
		return nil
	}

	data, err := os.ReadFile(local) //nolint:gosec
	if err != nil {
		return fmt.Errorf("can't read tar archive %s: %w", local, err)
	}

	out, err := sink.Open(ctx, target, nil)
	if err != nil {
		return err
	}

	return out.Write(ctx, data)
}
