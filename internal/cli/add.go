package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/quick-proj/internal/config"
	"github.com/shinji-kodama/quick-proj/internal/model"
	"github.com/shinji-kodama/quick-proj/internal/ui"
)

// addFlags holds the flag values for the add command.
type addFlags struct {
	// workspace names a VS Code .code-workspace file whose folders are
	// registered instead of (or in addition to) positional paths.
	workspace string
}

// addResultJSON is the --json output of the add command.
type addResultJSON struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// NewAddCommand creates the "add" cobra command.
func NewAddCommand() *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add [path...]",
		Short: "Register search root paths",
		Long: `Register one or more directories to search for projects.

Paths are expanded ("~") and stored canonical, with symlinks resolved.
Registering a path twice is harmless.

Examples:
  quick-proj add ~/src
  quick-proj add ~/src ~/work
  quick-proj add --workspace ~/team.code-workspace`,

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flags.workspace == "" {
				return model.NewCLIError(model.ExitGeneralError, "add requires a path or --workspace")
			}
			return runAdd(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.workspace, "workspace", "", "Register every folder of a VS Code .code-workspace file")

	return cmd
}

// runAdd collects the paths to add and registers them in a single locked
// config update.
func runAdd(cmd *cobra.Command, args []string, flags *addFlags) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	paths := append([]string{}, args...)
	if flags.workspace != "" {
		file, err := config.ExpandPath(flags.workspace)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid workspace path", err)
		}
		folders, err := config.ReadWorkspaceFolders(file)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read workspace file", err)
		}
		sess.logger.Debug("workspace folders read", zap.String("file", file), zap.Int("folders", len(folders)))
		paths = append(paths, folders...)
	}

	result := addResultJSON{Added: []string{}, Skipped: []string{}}
	_, err = config.Update(sess.configPath, func(c *config.Config) error {
		for _, p := range paths {
			canonical, added, err := c.AddRootPath(p)
			if err != nil {
				return err
			}
			if added {
				result.Added = append(result.Added, canonical)
			} else {
				result.Skipped = append(result.Skipped, canonical)
			}
		}
		return nil
	})
	if err != nil {
		return saveError(err)
	}

	printAddResult(cmd, sess.out, result, sess.home)
	return nil
}

// printAddResult outputs the add result in text or JSON format.
func printAddResult(cmd *cobra.Command, p *ui.Printer, result addResultJSON, home string) {
	if IsJSONOutput() {
		_ = printJSON(cmd.OutOrStdout(), result)
		return
	}
	for _, path := range result.Added {
		p.Success(fmt.Sprintf("Added: %s", ui.ShortenHome(path, home)))
	}
	for _, path := range result.Skipped {
		p.Warning(fmt.Sprintf("Path is already registered: %s", ui.ShortenHome(path, home)))
	}
}
