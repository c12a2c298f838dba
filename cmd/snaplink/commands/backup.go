package commands

import (
	"github.com/spf13/cobra"

	"github.com/mjansson/snaplink/internal/errors"
	"github.com/mjansson/snaplink/internal/location"
	"github.com/mjansson/snaplink/internal/logging"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup [path]",
	Short: "Start a back-up",
	Long: `Create a new snapshot on the first reachable target and synchronize
the source into it.

Without an argument the entire source tree is backed up. An optional
path argument restricts the operation: a trailing slash selects a
subdirectory, otherwise a single file. The path is relative to the
source root and keeps its position relative to the backup root.`,
	Example: `  # Back up everything
  snaplink backup

  # Back up a subdirectory
  snaplink backup documents/

  # Back up a single file
  snaplink backup documents/thesis.tex

  See Also: snaplink restore, snaplink doctor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	sel, err := parseScope(args)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	built, err := buildConfiguration(logger)
	if err != nil {
		return err
	}

	ok, err := newRunner(built, logger).Backup(sel)
	if err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}
	if !ok {
		return errors.NewExitError(errors.New("back-up did not complete"), errors.ExitSystem)
	}
	return nil
}

// parseScope maps the optional path argument onto a selector.
func parseScope(args []string) (location.Selector, error) {
	if len(args) == 0 {
		return location.EntireTree(), nil
	}

	sel, err := location.ParseSelector(args[0])
	if err != nil {
		return location.Selector{}, errors.NewUserError(err,
			"Use a trailing slash for directories, none for files.")
	}
	return sel, nil
}
