package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quick-proj/internal/config"
)

// removeResultJSON is the --json output of the remove command.
type removeResultJSON struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed"`
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <path>",
		Aliases: []string{"rm"},
		Short:   "Unregister a search root path",
		Long: `Remove a directory from the registered search roots.

The path may no longer exist on disk; it is then matched by its absolute form.

Examples:
  quick-proj remove ~/src
  quick-proj rm /old/checkout`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args[0])
		},
	}

	return cmd
}

// runRemove removes path from the configuration. A path that is not
// registered only produces a warning.
func runRemove(cmd *cobra.Command, path string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	var removed bool
	_, err = config.Update(sess.configPath, func(c *config.Config) error {
		var err error
		removed, err = c.RemoveRootPath(path)
		return err
	})
	if err != nil {
		return saveError(err)
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), removeResultJSON{Path: path, Removed: removed})
	}
	if removed {
		sess.out.Success(fmt.Sprintf("Removed: %s", path))
	} else {
		sess.out.Warning("Path not found in configuration.")
	}
	return nil
}
