package visual

import (
	"fmt"
	"strings"
	"time"

	"github.com/minispec/visual/pkg/elkjs"
	"github.com/minispec/visual/pkg/executor"
	"github.com/minispec/visual/pkg/graphviz"
	"github.com/minispec/visual/pkg/layout"
)

// EngineCommand runs any program speaking ELK JSON on its standard input and output.
const EngineCommand = "command"

// EngineOpts selects and configures the layout engine.
type EngineOpts struct {
	Engine    string `mapstructure:"engine"`
	Algorithm string `mapstructure:"algorithm"`
	// Node and ElkModule configure the elkjs engine.
	Node      string `mapstructure:"node"`
	ElkModule string `mapstructure:"elk_module"`
	// LayoutCommand is the command line of the command engine, e.g. "java -jar place.jar".
	LayoutCommand string        `mapstructure:"layout_command"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// LayoutOption are "key=value" layout options set on the root of every graph.
	LayoutOption []string `mapstructure:"layout_option"`
}

// NewEngine returns the layout engine selected by opts. External engines run through shell.
func NewEngine(opts EngineOpts, shell executor.ShellExecutor) (layout.Engine, error) {
	switch strings.ToLower(opts.Engine) {
	case "", graphviz.EngineName:
		if _, err := graphviz.ResolveAlgorithm(opts.Algorithm); err != nil {
			return nil, err
		}
		return graphviz.NewEngine(opts.Algorithm), nil
	case elkjs.EngineName:
		engine := elkjs.NewEngine(shell, opts.Node, opts.ElkModule)
		setTimeout(engine, opts.Timeout)
		return engine, nil
	case EngineCommand:
		fields := strings.Fields(opts.LayoutCommand)
		if len(fields) == 0 {
			return nil, fmt.Errorf("the %q engine needs a layout command", EngineCommand)
		}
		engine := layout.NewCommandEngine(shell, fields[0], fields[1:]...)
		setTimeout(engine, opts.Timeout)
		return engine, nil
	default:
		return nil, fmt.Errorf("\"%s\" is not a valid layout engine (%s|%s|%s)",
			opts.Engine, graphviz.EngineName, elkjs.EngineName, EngineCommand)
	}
}

// RequiredCommands lists the programs the selected engine runs.
func RequiredCommands(opts EngineOpts) []string {
	switch strings.ToLower(opts.Engine) {
	case elkjs.EngineName:
		if opts.Node != "" {
			return []string{opts.Node}
		}
		return []string{elkjs.DefaultNode}
	case EngineCommand:
		if fields := strings.Fields(opts.LayoutCommand); len(fields) > 0 {
			return fields[:1]
		}
	}

	return nil
}

func setTimeout(engine *layout.CommandEngine, timeout time.Duration) {
	if timeout > 0 {
		engine.Timeout = timeout
	}
}
