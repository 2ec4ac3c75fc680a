package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

var (
	intakeOut        string
	intakeTranscript string
)

var intakeCmd = &cobra.Command{
	Use:   "intake [files...]",
	Short: "Extract text from case materials",
	Long: `Extract text from every file and print a per-file report.

Supported materials:
  PDF    - text layer, with OCR when a page has none
  DOCX   - paragraph text
  Audio  - mp3, wav, m4a, flac, ogg, aac (transcribed)
  Video  - mp4, avi, mkv, mov, webm (audio track transcribed)

A file that cannot be read is reported and skipped; the rest still
contribute to the corpus.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIntake,
}

func init() {
	intakeCmd.Flags().StringVarP(&intakeOut, "out", "o", "", "Write the combined corpus to this file")
	intakeCmd.Flags().StringVar(&intakeTranscript, "transcripts", "", "Export audio and video transcripts as DOCX into this directory")
	rootCmd.AddCommand(intakeCmd)
}

func runIntake(cmd *cobra.Command, args []string) error {
	report, err := ingestPaths(cmd.Context(), args)
	if err != nil {
		return err
	}
	printReport(cmd, report)

	if report.Corpus.IsEmpty() {
		cmd.Println("No text was extracted from any file.")
		return nil
	}

	if intakeOut != "" {
		if err := os.WriteFile(intakeOut, []byte(report.Corpus.String()), 0600); err != nil {
			return fmt.Errorf("failed to write corpus: %w", err)
		}
		cmd.Printf("Corpus written to %s\n", intakeOut)
	}

	if intakeTranscript != "" {
		if err := exportTranscripts(cmd, report, intakeTranscript); err != nil {
			return err
		}
	}
	return nil
}

// ingestPaths reads the files and runs them through intake.
func ingestPaths(ctx context.Context, paths []string) (*domain.IntakeReport, error) {
	if uploadService == nil || intakeService == nil {
		return nil, errors.New("intake service not configured")
	}
	files, err := uploadService.Load(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}
	report, err := intakeService.Ingest(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("intake failed: %w", err)
	}
	return report, nil
}

func printReport(cmd *cobra.Command, report *domain.IntakeReport) {
	cmd.Println("Intake")
	cmd.Println("======")
	for _, r := range report.Results {
		cmd.Printf("  %-32s %-11s %s\n", r.SourceName, r.Kind, resultStatus(r))
	}
	cmd.Printf("\n%d of %d files extracted\n\n", len(report.Corpus.Sections), len(report.Results))
}

func resultStatus(r domain.ExtractionResult) string {
	if r.OK() {
		return fmt.Sprintf("ok (%d chars)", len([]rune(r.Text)))
	}
	return r.Reason()
}

// exportTranscripts writes one DOCX per transcribed file into dir.
func exportTranscripts(cmd *cobra.Command, report *domain.IntakeReport, dir string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}
	for _, r := range report.Results {
		if !r.OK() || !r.Kind.IsMedia() {
			continue
		}
		data, err := exportService.Export("docx", "Transcript: "+r.SourceName, r.Text)
		if err != nil {
			return fmt.Errorf("failed to export transcript for %s: %w", r.SourceName, err)
		}
		path := filepath.Join(dir, transcriptName(r.SourceName))
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
		cmd.Printf("Transcript written to %s\n", path)
	}
	return nil
}

// transcriptName maps "bodycam.mp4" to "bodycam_transcript.docx".
func transcriptName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_transcript.docx"
}
