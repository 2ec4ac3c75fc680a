// Package cli implements the exonascope command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Driving ports used by the commands. Nil until SetServices is called
// or the bootstrap has run.
var (
	intakeService      driving.IntakeService
	analysisService    driving.AnalysisService
	exportService      driving.ExportService
	settingsService    driving.SettingsService
	uploadService      driving.UploadService
	diagnosticsService driving.DiagnosticsService
	openHistory        HistoryOpener
)

// HistoryOpener opens the case history database at path.
// The returned function closes it.
type HistoryOpener func(path string) (driving.HistoryService, func() error, error)

// Services holds the driving ports the commands call.
type Services struct {
	Intake      driving.IntakeService
	Analysis    driving.AnalysisService
	Export      driving.ExportService
	Settings    driving.SettingsService
	Uploads     driving.UploadService
	Diagnostics driving.DiagnosticsService
	OpenHistory HistoryOpener
}

// SetServices installs the driving ports.
func SetServices(s Services) {
	intakeService = s.Intake
	analysisService = s.Analysis
	exportService = s.Export
	settingsService = s.Settings
	uploadService = s.Uploads
	diagnosticsService = s.Diagnostics
	openHistory = s.OpenHistory
}

// Bootstrap builds the services after flags are parsed. configDir is
// empty unless --config-dir was given. The returned function releases
// whatever the services hold open.
type Bootstrap func(configDir string) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	shutdown  func() error
)

// SetBootstrap registers the function that wires the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

var rootCmd = &cobra.Command{
	Use:   "exonascope",
	Short: "Turn case materials into a draft defense motion",
	Long: `ExonaScope ingests police reports, statements, audio and video from a
criminal case, extracts their text, and drafts a defense motion backed by
verified caselaw.

Typical use:
  exonascope intake report.pdf bodycam.mp4 --out corpus.txt
  exonascope analyze report.pdf bodycam.mp4 --case-name "People v. Doe" --out motion.docx
  exonascope watch ./uploads`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.exonascope)")
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil || !needsServices(cmd) {
		return nil
	}
	svc, closeFn, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(*svc)
	shutdown = closeFn
	return nil
}

// needsServices is false for commands that run without configuration.
func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return false
		}
	}
	return true
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if shutdown != nil {
			if err := shutdown(); err != nil {
				logger.Warn("shutdown: %v", err)
			}
			shutdown = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
