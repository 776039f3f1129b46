package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quick-proj/internal/config"
	"github.com/shinji-kodama/quick-proj/internal/launcher"
	"github.com/shinji-kodama/quick-proj/internal/model"
)

// setEditorResultJSON is the --json output of the set-editor command.
type setEditorResultJSON struct {
	Editor    string `json:"editor"`
	Available bool   `json:"available"`
}

// NewSetEditorCommand creates the "set-editor" cobra command.
func NewSetEditorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-editor <editor>",
		Short: "Set the default editor",
		Long: `Set the editor used to open projects. Well-known aliases are accepted
(code, vscode, cursor, vim, nvim, neovim, emacs, sublime, subl, atom, idea,
intellij, webstorm, pycharm, goland, rustrover, zed), as is any command line.

The editor is saved even when it is not found in PATH.

Examples:
  quick-proj set-editor nvim
  quick-proj set-editor "code --new-window"`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEditor(cmd, args[0])
		},
	}

	return cmd
}

// runSetEditor stores editor in the configuration.
func runSetEditor(cmd *cobra.Command, editor string) error {
	if strings.TrimSpace(editor) == "" {
		return model.NewCLIError(model.ExitGeneralError, "editor must not be empty")
	}

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	available := launcher.New(editor).Available()

	_, err = config.Update(sess.configPath, func(c *config.Config) error {
		c.SetEditor(editor)
		return nil
	})
	if err != nil {
		return saveError(err)
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), setEditorResultJSON{Editor: strings.TrimSpace(editor), Available: available})
	}
	if !available {
		sess.out.Warning(fmt.Sprintf("Editor '%s' not found in PATH. Setting anyway.", editor))
		if found := launcher.AvailableEditors(nil); len(found) > 0 {
			sess.out.Info("Available editors: " + strings.Join(found, ", "))
		}
	}
	sess.out.Success(fmt.Sprintf("Default editor set to: %s", strings.TrimSpace(editor)))
	return nil
}
