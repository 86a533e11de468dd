package elkjs

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/minispec/visual/pkg/executor"
	"github.com/minispec/visual/pkg/layout"
)

const (
	// EngineName is the name of the elkjs engine on the command line.
	EngineName = "elkjs"
	// DefaultNode is the JavaScript runtime used when none is configured.
	DefaultNode = "node"
	// DefaultModule is the elkjs module required when none is configured.
	DefaultModule = "elkjs/lib/elk.bundled.js"
)

//go:embed driver.js
var driver string

// Driver returns the JavaScript source run by the engine.
func Driver() string {
	return driver
}

// NewEngine returns an engine running the elkjs driver with the node binary, requiring module.
// Empty values fall back to DefaultNode and DefaultModule.
func NewEngine(shell executor.ShellExecutor, node, module string) *layout.CommandEngine {
	if node == "" {
		node = DefaultNode
	}

	engine := layout.NewCommandEngine(shell, node, "-e", driver, ResolveModule(module))
	engine.EngineName = EngineName

	return engine
}

// ResolveModule turns module into something node's require understands. Bare package paths are
// kept as is, file paths are made absolute so they do not depend on node's resolution rules.
func ResolveModule(module string) string {
	if module == "" {
		return DefaultModule
	}

	if !isFilePath(module) {
		return module
	}

	abs, err := filepath.Abs(module)
	if err != nil {
		return module
	}

	return abs
}

func isFilePath(module string) bool {
	return filepath.IsAbs(module) ||
		strings.HasPrefix(module, "./") ||
		strings.HasPrefix(module, "../") ||
		strings.HasSuffix(module, ".js") && !strings.Contains(module, "/")
}
