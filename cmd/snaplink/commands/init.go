package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mjansson/snaplink/internal/config"
	"github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/paths"
	"github.com/mjansson/snaplink/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize snaplink configuration",
	Long: `Write a commented starter configuration file.

Creates ` + "`~/.config/snaplink/config.yaml`" + ` (or the file named with
--config) with a local example job to edit. The file is written
atomically and an existing configuration is never overwritten unless
--force is given.`,
	Example: `  # Create the default configuration file
  snaplink init

  # Write to a custom location
  snaplink init --config /etc/snaplink/config.yaml

  # Overwrite an existing configuration
  snaplink init --force

  See Also: snaplink config, snaplink doctor`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath := configFlag
	if configPath == "" {
		configPath = paths.DefaultConfigFile()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite")
		return nil
	}

	if err := paths.EnsureDir(filepath.Dir(configPath), paths.DefaultDirPerm); err != nil {
		return errors.NewSystemError(err, "Check permissions on the configuration directory.")
	}
	if err := fileutil.AtomicWriteFile(configPath, config.Starter(), 0o600); err != nil {
		return errors.NewSystemError(err, "Check permissions on the configuration directory.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to point at your data, then run: snaplink doctor")
	return nil
}
