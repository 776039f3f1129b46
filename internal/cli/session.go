package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/quick-proj/internal/config"
	"github.com/shinji-kodama/quick-proj/internal/logging"
	"github.com/shinji-kodama/quick-proj/internal/model"
	"github.com/shinji-kodama/quick-proj/internal/scanner"
	"github.com/shinji-kodama/quick-proj/internal/ui"
)

// lookupEnv reads environment variables; tests replace it.
var lookupEnv = os.LookupEnv

// session bundles what a command needs after global flags are applied:
// the loaded configuration, a logger and the printers.
type session struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	home       string

	// out prints command results; status prints progress and hints that
	// must not end up in piped stdout.
	out    *ui.Printer
	status *ui.Printer

	closeLog func()
}

// newSession loads the configuration and applies --max-depth and --log-file.
// The caller must call close.
func newSession(cmd *cobra.Command) (*session, error) {
	path := config.ResolvePath(configFlag, lookupEnv)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = maxDepthFlag
	}

	logFile := logFileFlag
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if logFile != "" {
		if logFile, err = config.ExpandPath(logFile); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid log file path", err)
		}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Verbose:  verbose,
		FilePath: logFile,
		Console:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to open log file", err)
	}
	logger.Debug("configuration loaded", zap.String("path", path), zap.Int("roots", len(cfg.RootPaths)))

	home, _ := config.ExpandPath("~")
	styles := ui.NewStyles("")

	return &session{
		configPath: path,
		cfg:        cfg,
		logger:     logger,
		home:       home,
		out:        ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), styles, home),
		status:     ui.NewPrinter(cmd.ErrOrStderr(), cmd.ErrOrStderr(), styles, home),
		closeLog:   closeLog,
	}, nil
}

func (s *session) close() {
	s.closeLog()
}

// newScanner validates the scan parameters and builds a Scanner.
func (s *session) newScanner() (*scanner.Scanner, error) {
	sc, err := scanner.New(s.cfg.ScanConfig(), scanner.WithLogger(s.logger))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid scan configuration", err)
	}
	return sc, nil
}

// scanError converts a Scan failure into a CLIError.
func scanError(err error) error {
	if errors.Is(err, scanner.ErrInvalidConfig) {
		return model.WrapCLIError(model.ExitConfigError, "invalid scan configuration", err)
	}
	return model.WrapCLIError(model.ExitGeneralError, "scan failed", err)
}

// saveError converts a config write failure into a CLIError.
func saveError(err error) error {
	if errors.Is(err, config.ErrRootNotFound) {
		return model.WrapCLIError(model.ExitRootNotFound, "root path not found", err)
	}
	return model.WrapCLIError(model.ExitConfigError, "failed to update configuration", err)
}

// pathExists reports whether path exists on disk.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
