package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configResultJSON is the --json output of the config command.
type configResultJSON struct {
	Path           string   `json:"path"`
	Exists         bool     `json:"exists"`
	RootPaths      []string `json:"rootPaths"`
	Editor         string   `json:"editor"`
	EditorResolved string   `json:"editorResolved"`
	MaxDepth       int      `json:"maxDepth"`
	ProjectMarkers []string `json:"projectMarkers"`
	ExcludeDirs    []string `json:"excludeDirs"`
	LogFile        string   `json:"logFile,omitempty"`
}

// NewConfigCommand creates the "config" cobra command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the configuration file path and current settings",
		Long: `Show where the configuration file lives and the effective settings,
including overrides from QUICK_PROJ_* environment variables and flags.

Examples:
  quick-proj config
  quick-proj config --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd)
		},
	}

	return cmd
}

// runConfig prints the config file location and the effective settings.
func runConfig(cmd *cobra.Command) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	cfg := sess.cfg
	exists := pathExists(sess.configPath)
	resolved := cfg.ResolveEditor(editorFlag, lookupEnv)

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), configResultJSON{
			Path:           sess.configPath,
			Exists:         exists,
			RootPaths:      cfg.RootPaths,
			Editor:         cfg.Editor,
			EditorResolved: resolved,
			MaxDepth:       cfg.MaxDepth,
			ProjectMarkers: cfg.ProjectMarkers,
			ExcludeDirs:    cfg.ExcludeDirs,
			LogFile:        cfg.LogFile,
		})
	}

	sess.out.ConfigPath(sess.configPath, exists)

	editor := cfg.Editor
	if editor == "" {
		editor = fmt.Sprintf("(not set, using %s)", resolved)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Current settings:")
	fmt.Fprintln(cmd.OutOrStdout())
	sess.out.KeyValue("Editor   ", editor)
	sess.out.KeyValue("Max depth", fmt.Sprint(cfg.MaxDepth))
	sess.out.KeyValue("Roots    ", fmt.Sprintf("%d paths", len(cfg.RootPaths)))
	sess.out.KeyValue("Markers  ", fmt.Sprintf("%d items", len(cfg.ProjectMarkers)))
	sess.out.KeyValue("Exclude  ", fmt.Sprintf("%d patterns", len(cfg.ExcludeDirs)))
	if cfg.LogFile != "" {
		sess.out.KeyValue("Log file ", cfg.LogFile)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
