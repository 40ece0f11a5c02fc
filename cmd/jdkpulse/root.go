package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/jdk-pulse/internal/config"
	"github.com/conn-castle/jdk-pulse/internal/logging"
	"github.com/conn-castle/jdk-pulse/internal/messages"
	"github.com/conn-castle/jdk-pulse/internal/pulse"
	"github.com/conn-castle/jdk-pulse/internal/terminal"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	resolvePaths     = config.ResolvePaths
	newLogger        = logging.New
	isTerminalWriter = terminal.IsTerminalWriter
	isInteractive    = terminal.IsInteractive
	goos             = runtime.GOOS
)

// app carries the global flags and the lazily built service shared by subcommands.
type app struct {
	configPath string
	output     string
	verbose    bool
	noColor    bool

	svc     *pulse.Service
	logger  *zap.Logger
	cleanup func()
}

// newRootCmd builds the command tree around a. The caller closes a once the command
// returns, whether or not it failed.
func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case outputText, outputJSON, outputYAML:
			default:
				return fmt.Errorf(messages.RootOutputInvalidFmt, a.output)
			}
			if a.noColor || !isTerminalWriter(cmd.OutOrStdout()) {
				color.NoColor = true
			}
			return nil
		},
	}
	cmd.Flags().BoolP("version", "v", false, messages.RootVersionFlag)
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", messages.RootFlagConfig)
	flags.StringVarP(&a.output, "output", "o", outputText, messages.RootFlagOutput)
	flags.BoolVar(&a.verbose, "verbose", false, messages.RootFlagVerbose)
	flags.BoolVar(&a.noColor, "no-color", false, messages.RootFlagNoColor)

	cmd.AddCommand(
		newListCmd(a),
		newCurrentCmd(a),
		newUseCmd(a),
		newClearCmd(a),
		newDoctorCmd(a),
		newHookCmd(a),
		newStateCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return cmd
}

// service loads configuration and builds the pulse service on first use. lenient skips
// config validation so doctor can still report on a partly broken setup.
func (a *app) service(cmd *cobra.Command, lenient bool) (*pulse.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	paths, err := resolvePaths(a.configPath)
	if err != nil {
		return nil, fmt.Errorf(messages.RootPathsFailedFmt, err)
	}
	load := config.LoadConfig
	if lenient {
		load = config.LoadConfigLenient
	}
	cfg, err := load(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger, cleanup, err := newLogger(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: a.verbose,
		File:    cfg.Log.File,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf(messages.RootLoggerFailedFmt, err)
	}
	logger.Debug("configuration loaded",
		zap.String("config", paths.ConfigPath),
		zap.String("state", cfg.StatePath(paths)))
	a.logger = logger
	a.cleanup = cleanup
	a.svc = pulse.New(pulse.Options{Config: cfg, Paths: paths, GOOS: goos, Logger: logger})
	return a.svc, nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// structured reports whether output should be machine readable.
func (a *app) structured() bool {
	return a.output != outputText
}

// render writes value as JSON or YAML, or calls text for the human format.
func (a *app) render(out io.Writer, value any, text func(io.Writer)) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(out)
		return nil
	}
}

func printWarnings(out io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprint(out, color.YellowString(messages.WarningFmt, warning))
	}
}
