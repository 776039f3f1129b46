package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quick-proj/internal/model"
	"github.com/shinji-kodama/quick-proj/internal/scanner"
)

// findFlags holds the flag values for the find command.
type findFlags struct {
	// open launches the editor on the first match.
	open bool

	// paths prints bare paths, one per line, for shell use.
	paths bool
}

// NewFindCommand creates the "find" cobra command.
func NewFindCommand() *cobra.Command {
	flags := &findFlags{}

	cmd := &cobra.Command{
		Use:   "find <query...>",
		Short: "Find projects matching a query without the interactive picker",
		Long: `Scan the registered roots and print the projects matching every query
term. A term matches when it is a case-insensitive substring of the project
name or of its path.

Examples:
  quick-proj find api
  quick-proj find work api --open
  cd "$(quick-proj find dotfiles --paths | head -n1)"`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.open, "open", false, "Open the first match in the editor")
	cmd.Flags().BoolVar(&flags.paths, "paths", false, "Print only the project paths")

	return cmd
}

// runFind scans, filters by query and prints or opens the matches.
func runFind(cmd *cobra.Command, query string, flags *findFlags) error {
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
	matches := scanner.FilterProjects(projects, query)
	elapsed := time.Since(start)

	if flags.open {
		if len(matches) == 0 {
			sess.status.Warning(fmt.Sprintf("No project matches %q.", query))
			return nil
		}
		editor := sess.cfg.ResolveEditor(editorFlag, lookupEnv)
		if err := openProject(cmd, sess, matches[0], editor); err != nil {
			return err
		}
		if IsJSONOutput() {
			return printJSON(cmd.OutOrStdout(), selectedJSON{Project: &matches[0], Editor: editor})
		}
		return nil
	}

	switch {
	case IsJSONOutput():
		return printJSON(cmd.OutOrStdout(), scanResult{
			Projects:  matches,
			Count:     len(matches),
			ElapsedMs: elapsed.Milliseconds(),
		})
	case flags.paths:
		for _, p := range matches {
			fmt.Fprintln(cmd.OutOrStdout(), p.Path)
		}
		return nil
	default:
		if len(matches) == 0 {
			sess.out.Warning(fmt.Sprintf("No project matches %q.", query))
			return nil
		}
		printFindResultText(cmd, sess, matches)
		return nil
	}
}

// printFindResultText prints one "name (path)" line per match.
func printFindResultText(cmd *cobra.Command, sess *session, matches []model.Project) {
	for _, p := range matches {
		fmt.Fprintln(cmd.OutOrStdout(), sess.out.ProjectItem(p))
	}
}
