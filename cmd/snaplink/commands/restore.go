package commands

import (
	"github.com/spf13/cobra"

	"github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/logging"
)

func init() {
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Restore from the latest snapshot",
	Long: `Synchronize data from the latest snapshot on the first reachable
target back into the source location.

Without an argument the entire tree is restored. An optional path
argument restricts the operation: a trailing slash selects a
subdirectory, otherwise a single file. No snapshot is created; the
restore reads the target as-is.`,
	Example: `  # Restore everything
  snaplink restore

  # Restore a subdirectory
  snaplink restore documents/

  # Restore a single file
  snaplink restore documents/thesis.tex

  See Also: snaplink backup, snaplink doctor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	sel, err := parseScope(args)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	built, err := buildConfiguration(logger)
	if err != nil {
		return err
	}

	ok, err := newRunner(built, logger).Restore(sel)
	if err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}
	if !ok {
		return errors.NewExitError(errors.New("restoration did not complete"), errors.ExitSystem)
	}
	return nil
}
