package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/paths"
	"github.com/mjansson/snaplink/pkg/fileutil"
)

// configShowWrite holds the value of the --write flag.
var configShowWrite bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowWrite, "write", false,
		"rewrite the configuration file in normalized form")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect snaplink configuration",
	Long: `Inspect the snaplink configuration.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  snaplink config show

  # Show which file is in use
  snaplink config path

See Also: snaplink init, snaplink doctor`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Render the loaded configuration as YAML, after defaults and
environment variables have been applied.

With --write, the configuration file is rewritten in this normalized
form instead.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file in use",
	RunE:  runConfigPath,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if configShowWrite {
		if loadedConfig.Path == "" {
			return errors.NewUserError(nil, "no configuration file to rewrite; run 'snaplink init' first")
		}
		if err := fileutil.AtomicWriteYAMLWithPerm(loadedConfig.Path, loadedConfig, 0o600); err != nil {
			return errors.Wrap(err, "rewriting configuration")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %s\n", loadedConfig.Path)
		return nil
	}

	rendered, err := yaml.Marshal(loadedConfig)
	if err != nil {
		return errors.Wrap(err, "rendering configuration")
	}

	if loadedConfig.Path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", loadedConfig.Path)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(rendered))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if loadedConfig.Path == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "no configuration file found, default would be %s\n", paths.DefaultConfigFile())
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), loadedConfig.Path)
	return nil
}
