// Package cli — list.go implements the "quick-proj list" command.
//
// The list command shows the registered search roots in insertion order,
// each marked with whether the directory still exists on disk.
package cli

import (
	"github.com/spf13/cobra"
)

// listRootJSON is the JSON output structure for a single root.
type listRootJSON struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered search root paths",
		Long: `List the registered search root paths.

A check mark means the directory exists; a cross means it is missing and
will contribute no projects to a scan.

Examples:
  quick-proj list
  quick-proj list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

// runList loads the configuration and prints its roots.
func runList(cmd *cobra.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), BuildRootList(sess.cfg.RootPaths, pathExists))
	}
	sess.out.RootPaths(sess.cfg.RootPaths, pathExists)
	return nil
}

// BuildRootList pairs every root with its existence state.
func BuildRootList(roots []string, exists func(string) bool) []listRootJSON {
	// An empty slice instead of nil renders [] rather than null.
	out := make([]listRootJSON, 0, len(roots))
	for _, root := range roots {
		out = append(out, listRootJSON{Path: root, Exists: exists(root)})
	}
	return out
}
