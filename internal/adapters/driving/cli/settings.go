package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change pipeline settings.

API keys are read from the environment (or a .env file) and never stored:
  ASSEMBLYAI_API_KEY       speech-to-text
  OPENAI_API_KEY           fact extraction and drafting
  COURTLISTENER_API_TOKEN  caselaw search (optional)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long:  `Change a setting. Run "exonascope settings keys" for the list of keys.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check external tools and API access",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	in := settings.Intake
	cmd.Println("[Intake]")
	cmd.Printf("  Poll interval: %s\n", in.PollInterval)
	cmd.Printf("  Max poll attempts: %d\n", in.MaxPollAttempts)
	cmd.Printf("  OCR DPI: %d\n", in.OCRDPI)
	cmd.Printf("  OCR page segmentation mode: %d\n", in.OCRPageSegMode)
	cmd.Printf("  Compress audio: %t\n", in.CompressAudio)
	cmd.Printf("  Workers: %d\n", in.Workers)
	cmd.Printf("  ffmpeg: %s\n", in.FFmpegPath)
	cmd.Printf("  ffprobe: %s\n", in.FFprobePath)
	cmd.Printf("  Temp dir: %s\n", orDefault(in.TempDir, "(system default)"))
	cmd.Println()

	cmd.Println("[Transcription]")
	cmd.Printf("  Provider: %s\n", orDefault(settings.Transcription.Provider, domain.TranscriptionAssemblyAI))
	cmd.Printf("  Base URL: %s\n", orDefault(settings.Transcription.BaseURL, "(default)"))
	printKey(cmd, "API Key", settings.Transcription.APIKey)
	printStatus(cmd, settings.Transcription.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	cmd.Printf("  Base URL: %s\n", orDefault(settings.LLM.BaseURL, "(default)"))
	printKey(cmd, "API Key", settings.LLM.APIKey)
	printStatus(cmd, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Caselaw]")
	cmd.Printf("  Base URL: %s\n", orDefault(settings.Caselaw.BaseURL, "(default)"))
	printKey(cmd, "API Token", settings.Caselaw.APIToken)
	cmd.Printf("  Results per issue: %d\n", settings.Caselaw.ResultsPerIssue)
	cmd.Printf("  Requests per second: %g\n", settings.Caselaw.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Pipeline.Processors, ", "))
	if cfg := settings.Pipeline.GetProcessorConfig("chunker"); cfg != nil {
		cmd.Printf("  Chunk size: %v\n", cfg["chunk_size"])
	}

	if unknown := settingsService.UnknownKeys(); len(unknown) > 0 {
		cmd.Println()
		cmd.Printf("Ignored keys in config: %s\n", strings.Join(unknown, ", "))
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w\nRun \"exonascope settings keys\" to list valid keys", err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset setting: %w", err)
	}
	cmd.Printf("%s restored to default\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if diagnosticsService == nil {
		return errors.New("diagnostics service not configured")
	}

	checks := diagnosticsService.Check(cmd.Context())
	for _, c := range checks {
		mark := "ok"
		switch {
		case !c.OK && c.Required:
			mark = "FAIL"
		case !c.OK:
			mark = "--"
		}
		cmd.Printf("  %-14s %-4s %s\n", c.Name, mark, c.Detail)
	}

	if !domain.Healthy(checks) {
		return errors.New("required tools are missing")
	}
	return nil
}

func printKey(cmd *cobra.Command, label, key string) {
	if key == "" {
		cmd.Printf("  %s: (not set)\n", label)
		return
	}
	cmd.Printf("  %s: %s\n", label, maskAPIKey(key))
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// maskAPIKey masks an API key for display, showing first 4 and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
