// Package commands implements the CLI commands for snaplink.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjansson/snaplink/cmd"
	"github.com/mjansson/snaplink/internal/config"
	"github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/logging"
	"github.com/mjansson/snaplink/internal/runner"
)

// configFlag holds the value of the -c/--config flag.
var configFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig and configLoadErr hold the result of config loading.
var (
	loadedConfig  *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"path to the configuration file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("snaplink version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFlag)
}

var rootCmd = &cobra.Command{
	Use:   "snaplink",
	Short: "Hardlink-based incremental backups over rsync",
	Long: `snaplink backs up and restores your data using rsync.

Each backup creates a timestamped snapshot directory on the target,
seeded from the previous snapshot with hardlinks so unchanged files
cost no additional storage. A "latest" symlink always points at the
most recent snapshot. Targets are tried in configuration order and
the first reachable one is used, locally or over SSH.`,
	Example: `  # Create the configuration file
  snaplink init

  # Back up everything
  snaplink backup

  # Back up a single subdirectory
  snaplink backup documents/

  # Restore one file from the latest snapshot
  snaplink restore documents/thesis.tex

  # Check the environment
  snaplink doctor

  See Also: snaplink init, snaplink doctor, snaplink config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SNAPLINK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1 // Debug
				case "2":
					v = 2 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	handlers := []slog.Handler{logging.BuildHandler(logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	})}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, logging.BuildHandler(logging.Config{
			Level:  level,
			Format: logging.FormatJSON,
			Output: f,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// buildConfiguration materializes the loaded configuration for a
// backup or restore run. CLI verbosity flags override the file's
// verbose setting.
func buildConfiguration(logger *slog.Logger) (*config.Configuration, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}

	built, err := config.Build(loadedConfig, logger)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	if verbosity > 0 {
		built.Verbose = true
		built.Transfer.Verbose = true
	}
	if quiet {
		built.Verbose = false
		built.Transfer.Verbose = false
	}

	return built, nil
}

// newRunner wires a materialized configuration into a runner.
func newRunner(built *config.Configuration, logger *slog.Logger) *runner.Runner {
	return runner.New(runner.Params{
		Name:     built.Name,
		Source:   built.Source,
		Target:   built.Target,
		Notifier: built.Notifier,
		Transfer: built.Transfer,
		Logger:   logger,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
