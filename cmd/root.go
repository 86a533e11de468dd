package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/minispec/visual/internal/logger"
	"github.com/minispec/visual/pkg/graphviz"
	"github.com/minispec/visual/pkg/layout"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultLogLevel = "info"
	defaultEngine   = graphviz.EngineName
)

var (
	workingDir string
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use: "visual",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Short: "Lay out ELK graphs and serve their rendering",
	Long: `visual places graph descriptions (ELK JSON or YAML) with a layout engine, and serves
the resulting drawing over HTTP.

Run visual --help for more information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	// Set logger level from flags as early as possible, then load config, then finalize from Viper
	cobra.OnInitialize(preInitLogLevelFromFlags, initConfig, initLogLevel)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/.visual.yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel,
		`Log level. Can be any standard log-level ("info", "debug", etc...)`)
	rootCmd.PersistentFlags().StringP("engine", "e", defaultEngine,
		`Layout engine: "graphviz" (built in), "elkjs" (runs elkjs with node) or "command" (runs --layout-command).`)
	rootCmd.PersistentFlags().String("algorithm", "",
		`Default layout algorithm of the graphviz engine, for graphs not setting "elk.algorithm".
Accepts ELK algorithm ids (layered, force, stress, radial...) and Graphviz layouts (dot, neato...).`)
	rootCmd.PersistentFlags().String("node", "node",
		"JavaScript runtime used by the elkjs engine.")
	rootCmd.PersistentFlags().String("elk-module", "",
		`elkjs module required by the elkjs engine, a package path or a file such as "./elk.bundled.js"
(default "elkjs/lib/elk.bundled.js").`)
	rootCmd.PersistentFlags().String("layout-command", "",
		"Command line of the command engine. It reads ELK JSON on stdin and prints the laid out graph on stdout.")
	rootCmd.PersistentFlags().Duration("timeout", layout.DefaultCommandTimeout,
		"Maximum duration of an external layout run.")
	rootCmd.PersistentFlags().StringSlice("layout-option", nil,
		`Layout option set on the root of every graph, as key=value (e.g. "elk.direction=DOWN"). Can be repeated.`)

	bindPFlagsSnakeCase(rootCmd.PersistentFlags())

	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(placeCommand())
	rootCmd.AddCommand(inspectCommand())
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(hashCommand())
	rootCmd.AddCommand(docgenCommand())
}

func initConfig() {
	var err error

	workingDir, err = os.Getwd()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")

	if cfgFile != "" {
		// Use config file from the flag.
		setConfigFile(cfgFile)
	} else if val := os.Getenv("VISUAL_CONFIG"); val != "" {
		// Use config file from the env variable.
		setConfigFile(val)
	} else {
		// Add $HOME/.config and current directory as paths for Viper to search for the config file in.
		homeDir, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(path.Join(homeDir, ".config"))
		viper.AddConfigPath(workingDir)

		// Search config file with name ".visual.yaml" or ".visual.yml".
		viper.SetConfigName(".visual")
	}

	// Env vars starting with the VISUAL_ prefix can override any configuration.
	// e.g. VISUAL_LOG_LEVEL, VISUAL_ENGINE, VISUAL_ELK_MODULE, etc...
	viper.SetEnvPrefix("visual")
	// Allows to override any sub-level in file config.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Read in environment variables that match.
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	err = viper.ReadInConfig()
	if err != nil {
		// Non-blocking, the config file is optional.
		logger.Debugf("%s", err)
	} else {
		logger.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

func initLogLevel() {
	logLevel := viper.GetString("log_level")
	logger.SetLevel(&logLevel)
}

// preInitLogLevelFromFlags sets the log level from Cobra flags or env before config/env are loaded by Viper,
// so that early logs (like config not found) respect user-provided preference.
// Precedence respected here: flag > env (VISUAL_LOG_LEVEL) > config (handled later in initLogLevel via Viper).
func preInitLogLevelFromFlags() {
	if rootCmd == nil {
		return
	}

	flag := rootCmd.PersistentFlags().Lookup("log-level")
	if flag != nil && flag.Changed {
		val, err := rootCmd.PersistentFlags().GetString("log-level")
		if err == nil {
			logger.SetLevel(&val)
			return
		}
	}

	if val, ok := os.LookupEnv("VISUAL_LOG_LEVEL"); ok && val != "" {
		logger.SetLevel(&val)
	}
}

func setConfigFile(name string) {
	_, err := os.Stat(name)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("config file %q not found", name))
	}

	viper.SetConfigFile(name)
}

// hydrateOptsFromViper copies all the viper values into our config struct.
// The mapping between viper identifiers and struct field names
// is ensured by `mapstructure` struct tags.
func hydrateOptsFromViper(opts any) {
	_ = viper.Unmarshal(opts)
}

// bindPFlagsSnakeCase binds the flags with viper values. The identifier of the viper value
// is the name of the flag with dashes replaced by underscores. This is required so we can
// retrieve values from viper with the same behaviour with config coming from files
// (my_config: "value") or from flags (--my-config=value).
func bindPFlagsSnakeCase(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = viper.BindPFlag(strings.ReplaceAll(flag.Name, "-", "_"), flag)
	})
}
