package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// scanFlags holds the flag values for the scan command.
type scanFlags struct {
	format model.OutputFormat
}

// scanResult is the structured output of the scan and find commands.
type scanResult struct {
	Projects  []model.Project `json:"projects" yaml:"projects"`
	Count     int             `json:"count" yaml:"count"`
	ElapsedMs int64           `json:"elapsedMs" yaml:"elapsed_ms"`
}

// NewScanCommand creates the "scan" cobra command.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the registered roots and print every project",
		Long: `Scan all registered root paths and print the projects found, sorted by
name. Useful for checking the configuration or for scripting.

Examples:
  quick-proj scan
  quick-proj scan -d 2
  quick-proj scan --format yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, flags)
		},
	}

	cmd.Flags().Var(newFormatValue(model.FormatText, &flags.format), "format", "Output format: text, json, yaml")

	return cmd
}

// runScan performs a full scan and prints the result.
func runScan(cmd *cobra.Command, flags *scanFlags) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer sess.close()

	format := effectiveFormat(flags.format)

	if len(sess.cfg.RootPaths) == 0 {
		if format == model.FormatText {
			sess.out.Warning("No root paths configured.")
			return nil
		}
		return printScanResult(cmd, sess, format, scanResult{Projects: []model.Project{}}, 0)
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

	return printScanResult(cmd, sess, format, scanResult{
		Projects:  projects,
		Count:     len(projects),
		ElapsedMs: elapsed.Milliseconds(),
	}, elapsed)
}

// printScanResult renders result in the requested format.
func printScanResult(cmd *cobra.Command, sess *session, format model.OutputFormat, result scanResult, elapsed time.Duration) error {
	switch format {
	case model.FormatJSON:
		return printJSON(cmd.OutOrStdout(), result)
	case model.FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode YAML output", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		sess.out.ProjectList(result.Projects)
		fmt.Fprintf(cmd.OutOrStdout(), "Scan completed in %dms\n", elapsed.Milliseconds())
		return nil
	}
}
