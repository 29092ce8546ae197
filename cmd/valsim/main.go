// Command valsim projects company revenue and implied valuation from a set of
// business assumptions.
package main

import (
	"fmt"
	"os"

	"github.com/rpgo/valuation-simulator/internal/calculation"
	"github.com/rpgo/valuation-simulator/internal/config"
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/rpgo/valuation-simulator/internal/observability"
	"github.com/spf13/cobra"
)

// app carries process-wide state shared by the subcommands.
type app struct {
	env       config.Env
	logLevel  string
	logFormat string
	log       *observability.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "valsim",
		Short:         "Company valuation simulator",
		Long:          `Projects per-segment revenue, mobility network economics and implied market capitalization over a multi-year horizon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to VALSIM_LOG_LEVEL or info")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console, json); defaults to VALSIM_LOG_FORMAT or console")

	root.AddCommand(
		newCalculateCmd(a),
		newExampleCmd(a),
		newValidateCmd(a),
		newSensitivityCmd(a),
		newTargetCmd(a),
		newFormatsCmd(),
		newServeCmd(a),
	)
	return root
}

// init loads .env settings and builds the logger. Flags override the environment.
func (a *app) init(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	a.env = env
	if a.logLevel == "" {
		a.logLevel = env.LogLevel
	}
	if a.logFormat == "" {
		a.logFormat = env.LogFormat
	}
	a.log, err = observability.NewLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
	return err
}

// engine returns a valuation engine logging through the app logger.
func (a *app) engine(workers int) *calculation.ValuationEngine {
	ve := calculation.NewValuationEngine()
	if workers > 0 {
		ve.Workers = workers
	}
	ve.SetLogger(a.log)
	return ve
}

// configPath resolves the --config flag, falling back to VALSIM_CONFIG.
func (a *app) configPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.env.ConfigPath != "" {
		return a.env.ConfigPath, nil
	}
	return "", fmt.Errorf("no configuration file: pass --config or set VALSIM_CONFIG")
}

// loadAssumptions reads, optionally bounds-checks and validates a configuration file.
func (a *app) loadAssumptions(path string, strict bool) (*domain.Assumptions, error) {
	parser := config.NewInputParser()
	fc, err := parser.LoadFileConfig(path)
	if err != nil {
		return nil, err
	}
	if violations := config.CheckBounds(fc); len(violations) > 0 {
		for _, v := range violations {
			a.log.Warnf("out of bounds: %s", v)
		}
		if strict {
			return nil, fmt.Errorf("%w: %d configuration values out of bounds", domain.ErrInvalidAssumptions, len(violations))
		}
	}
	return parser.Build(fc)
}
