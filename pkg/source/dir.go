package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minispec/visual/internal/logger"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
)

// IgnoreFile lists patterns of files to skip when a directory is given as input, with the
// syntax of .dockerignore files.
const IgnoreFile = ".visualignore"

var graphExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// ReadDir reads every graph description found below dir, sorted by path. Files matching the
// patterns of the directory's ignore file or the exclude patterns are skipped.
func ReadDir(dir string, exclude []string) ([]Input, error) {
	patterns, err := readIgnoreFile(dir)
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, exclude...)

	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore patterns for %s: %w", dir, err)
	}

	var files []string

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}

		ignored, err := matcher.MatchesOrParentMatches(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if ignored && !matcher.Exclusions() {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := graphExtensions[strings.ToLower(filepath.Ext(path))]; !ok || ignored {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read graph descriptions from %s: %w", dir, err)
	}

	sort.Strings(files)

	logger.Debugf("Found %d graph descriptions in %s", len(files), dir)

	inputs := make([]Input, 0, len(files))
	for _, file := range files {
		input, err := ReadFile(file)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}

func readIgnoreFile(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", IgnoreFile, err)
	}

	defer func() {
		_ = f.Close()
	}()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", filepath.Join(dir, IgnoreFile), err)
	}

	return patterns, nil
}
