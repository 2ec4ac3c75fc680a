package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

var (
	analyzeCaseName     string
	analyzeCaseNumber   string
	analyzeJurisdiction string
	analyzeMotion       string
	analyzeFormat       string
	analyzeOut          string
	analyzeHistory      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Ingest case materials and draft a motion",
	Long: `Ingest the files, then extract facts, tag legal events, spot issues,
look up caselaw and draft the motion.

Motion types:
  suppress_statements - Motion to Suppress Statements (default)
  suppress_evidence   - Motion to Suppress Physical Evidence
  dismiss_case        - Motion to Dismiss Case

Jurisdiction is a CourtListener court code; "vi" (Virgin Islands) is the
default and "3rd" selects the Third Circuit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCaseName, "case-name", "", "Case name, e.g. \"People v. Doe\"")
	analyzeCmd.Flags().StringVar(&analyzeCaseNumber, "case-number", "", "Case number")
	analyzeCmd.Flags().StringVar(&analyzeJurisdiction, "jurisdiction", domain.DefaultJurisdiction, "Court code")
	analyzeCmd.Flags().StringVar(&analyzeMotion, "motion", string(domain.MotionSuppressStatements), "Motion type")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "docx", "Output format: docx, pdf or txt")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Motion output file (default motion.<format>)")
	analyzeCmd.Flags().StringVar(&analyzeHistory, "history", "", "Record the case in this history database")
	_ = analyzeCmd.MarkFlagRequired("case-name")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	motion := domain.MotionType(analyzeMotion)
	if !motion.IsValid() {
		return fmt.Errorf("unknown motion type %q", analyzeMotion)
	}
	if err := checkFormat(analyzeFormat); err != nil {
		return err
	}
	out := analyzeOut
	if out == "" {
		out = "motion." + analyzeFormat
	}

	report, err := ingestPaths(cmd.Context(), args)
	if err != nil {
		return err
	}
	printReport(cmd, report)
	if report.Corpus.IsEmpty() {
		return errors.New("no text was extracted from any file; nothing to analyze")
	}

	state := domain.NewCaseState(uuid.New().String(), analyzeCaseName, analyzeCaseNumber).
		WithJurisdiction(analyzeJurisdiction).
		WithMotionType(motion).
		WithCorpus(report.Corpus)

	state, err = analysisService.Run(cmd.Context(), state)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printAnalysis(cmd, state)

	data, err := renderMotion(analyzeFormat, state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return fmt.Errorf("failed to write motion: %w", err)
	}
	cmd.Printf("Motion written to %s\n", out)

	if analyzeHistory != "" {
		if err := recordCase(cmd, analyzeHistory, state); err != nil {
			return err
		}
	}
	return nil
}

func checkFormat(format string) error {
	if format == "txt" {
		return nil
	}
	if exportService == nil {
		return errors.New("export service not configured")
	}
	if !slices.Contains(exportService.Formats(), format) {
		return fmt.Errorf("unknown format %q (available: txt, %s)", format, strings.Join(exportService.Formats(), ", "))
	}
	return nil
}

func renderMotion(format string, state domain.CaseState) ([]byte, error) {
	if format == "txt" {
		return []byte(state.Motion + "\n"), nil
	}
	data, err := exportService.Export(format, state.MotionType.Title(), state.Motion)
	if err != nil {
		return nil, fmt.Errorf("failed to export motion: %w", err)
	}
	return data, nil
}

func printAnalysis(cmd *cobra.Command, state domain.CaseState) {
	cmd.Printf("Case: %s", state.CaseName)
	if state.CaseNumber != "" {
		cmd.Printf(" (%s)", state.CaseNumber)
	}
	cmd.Println()
	cmd.Printf("Tagged events: %d\n", len(state.TaggedEvents))

	printList(cmd, "Legal issues", state.Issues)
	printList(cmd, "Possible defenses", state.Defenses)

	cmd.Println("Caselaw:")
	if len(state.Caselaw) == 0 {
		cmd.Println("  (none found)")
	}
	for _, ref := range state.Caselaw {
		cmd.Printf("  - %s, %s (%s)\n", ref.Name, ref.Citation, ref.Court)
		if ref.URL != "" {
			cmd.Printf("    %s\n", ref.URL)
		}
	}
	cmd.Println()
}

func printList(cmd *cobra.Command, heading string, items []string) {
	cmd.Printf("%s:\n", heading)
	if len(items) == 0 {
		cmd.Println("  (none)")
	}
	for _, item := range items {
		cmd.Printf("  - %s\n", item)
	}
}

func recordCase(cmd *cobra.Command, path string, state domain.CaseState) error {
	if openHistory == nil {
		return errors.New("history store not configured")
	}
	history, closeFn, err := openHistory(path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = closeFn() }()

	if err := history.Record(cmd.Context(), state); err != nil {
		return fmt.Errorf("failed to record case: %w", err)
	}
	cmd.Printf("Case recorded as %s\n", state.ID)
	return nil
}
