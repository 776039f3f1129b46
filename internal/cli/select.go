package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/quick-proj/internal/launcher"
	"github.com/shinji-kodama/quick-proj/internal/model"
	"github.com/shinji-kodama/quick-proj/internal/ui"
)

// selectedJSON is the --json output of the select action.
type selectedJSON struct {
	Project *model.Project `json:"project"`
	Editor  string         `json:"editor,omitempty"`
}

// runSelect is the default action: scan, pick a project, open it.
//
// Everything except the final JSON document is written to stderr, so the
// picker stays usable when stdout is captured.
func runSelect(cmd *cobra.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	if len(sess.cfg.RootPaths) == 0 {
		printNoRootsHint(sess.status)
		return nil
	}

	sc, err := sess.newScanner()
	if err != nil {
		return err
	}

	start := time.Now()
	projects, err := sc.Scan(cmd.Context(), sess.cfg.RootPaths)
	if err != nil {
		return scanError(err)
	}
	elapsed := time.Since(start)

	if len(projects) == 0 {
		sess.status.Warning("No projects found in registered paths.")
		fmt.Fprintln(cmd.ErrOrStderr())
		fmt.Fprintln(cmd.ErrOrStderr(), "Check if your paths contain projects with markers like:")
		fmt.Fprintln(cmd.ErrOrStderr(), "  .git, Cargo.toml, package.json, go.mod, etc.")
		return nil
	}

	sess.status.Summary(len(projects), elapsed)

	chosen, err := ui.Select(projects, ui.SelectOptions{
		Input:  cmd.InOrStdin(),
		Output: cmd.ErrOrStderr(),
		Home:   sess.home,
	})
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "project selection failed", err)
	}
	if chosen == nil {
		fmt.Fprintln(cmd.ErrOrStderr())
		sess.status.Info("Selection cancelled.")
		if IsJSONOutput() {
			return printJSON(cmd.OutOrStdout(), selectedJSON{})
		}
		return nil
	}

	editor := sess.cfg.ResolveEditor(editorFlag, lookupEnv)
	if err := openProject(cmd, sess, *chosen, editor); err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), selectedJSON{Project: chosen, Editor: editor})
	}
	return nil
}

// openProject launches editor on project and reports it on stderr.
func openProject(cmd *cobra.Command, sess *session, project model.Project, editor string) error {
	fmt.Fprintln(cmd.ErrOrStderr())
	sess.status.Info(fmt.Sprintf("Opening %s with %s...", project.Name, editor))

	l := launcher.New(editor, launcher.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err := l.Launch(project.Path); err != nil {
		return model.WrapCLIError(model.ExitEditorLaunchFailed,
			fmt.Sprintf("failed to open %s with %s", project.Name, editor), err)
	}
	sess.logger.Debug("editor launched", zap.String("editor", editor), zap.String("path", project.Path))
	return nil
}

// printNoRootsHint tells first-time users how to register a root.
func printNoRootsHint(p *ui.Printer) {
	p.Warning("No root paths configured.")
	p.Info("Add a search path first:")
	p.KeyValue("quick-proj add", "~/src")
	p.KeyValue("quick-proj add", "~/projects")
}
