// Package cli implements the cobra-based CLI commands for quick-proj.
//
// Each subcommand (add, remove, list, config, scan, find, set-editor) is
// defined in its own file within this package. This file defines the root
// command, which doubles as the interactive "select a project and open it"
// action when no subcommand is given, and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the console log level to debug.
	verbose bool

	// editorFlag overrides the configured editor for this invocation.
	editorFlag string

	// maxDepthFlag overrides the configured scan depth. It only applies
	// when the flag was given explicitly.
	maxDepthFlag int

	// configFlag relocates the configuration file.
	configFlag string

	// logFileFlag enables the JSON debug log at the given path.
	logFileFlag string
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Run without a subcommand, quick-proj scans the registered roots, shows
// the fuzzy picker and opens the chosen project in the editor.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quick-proj",
		Short: "Fast project launcher for developers",
		Long: `quick-proj scans the directories you register for projects
(git repositories, Go modules, Cargo crates, npm packages, ...), lets you
fuzzy-select one and opens it in your editor.

Examples:
  quick-proj add ~/src      # register a search root
  quick-proj                # pick a project and open it
  quick-proj -e nvim        # open with a different editor`,

		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd)
		},
	}

	// PersistentFlags are inherited by all subcommands.
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&editorFlag, "editor", "e", "", "Editor command to open the project with (e.g. code, vim, nvim)")
	flags.IntVarP(&maxDepthFlag, "max-depth", "d", 0, "Maximum directory depth to search below each root")
	flags.StringVar(&configFlag, "config", "", "Path to the configuration file (default $XDG_CONFIG_HOME/quick-proj/config.toml)")
	flags.StringVar(&logFileFlag, "log-file", "", "Write a rotated JSON debug log to this file")

	rootCmd.AddCommand(NewAddCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewFindCommand())
	rootCmd.AddCommand(NewSetEditorCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(os.Stderr, cliErr.Message, cliErr.Err)
		} else {
			printError(os.Stderr, err.Error(), nil)
		}
		os.Exit(int(code))
	}
}

// exitCodeFor maps an error returned by a command to the process exit code.
func exitCodeFor(err error) model.ExitCode {
	if err == nil {
		return model.ExitSuccess
	}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode JSON output", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
