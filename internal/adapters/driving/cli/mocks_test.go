package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/storage/memory"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/core/services"
)

// MockUploadService loads files by base name and replays watch events.
type MockUploadService struct {
	events []domain.UploadEvent
	root   string
}

func (m *MockUploadService) Load(_ context.Context, paths []string) ([]domain.IntakeFile, error) {
	files := make([]domain.IntakeFile, len(paths))
	for i, p := range paths {
		files[i] = domain.IntakeFile{Name: filepath.Base(p), Content: []byte("x")}
	}
	return files, nil
}

func (m *MockUploadService) Watch(_ context.Context, root string, handle func(domain.UploadEvent)) error {
	m.root = root
	for _, e := range m.events {
		handle(e)
	}
	return nil
}

// MockIntakeService returns canned results keyed by file name.
type MockIntakeService struct{}

var mockResults = map[string]domain.ExtractionResult{
	"report.pdf":  domain.OKResult("report.pdf", domain.KindPDF, "Officer Diaz stopped the car."),
	"bodycam.mp4": domain.OKResult("bodycam.mp4", domain.KindVideo, "Step out of the vehicle."),
	"scan.pdf":    domain.EmptyResult("scan.pdf", domain.KindPDF),
}

func (m *MockIntakeService) Ingest(_ context.Context, files []domain.IntakeFile) (*domain.IntakeReport, error) {
	results := make([]domain.ExtractionResult, len(files))
	for i, f := range files {
		r, ok := mockResults[f.Name]
		if !ok {
			r = domain.UnsupportedResult(f.Name)
		}
		results[i] = r
	}
	return domain.NewIntakeReport(results), nil
}

// MockAnalysisService fills every stage with fixed output.
type MockAnalysisService struct {
	err  error
	seen domain.CaseState
}

func (m *MockAnalysisService) ExtractFacts(_ context.Context, s domain.CaseState) (domain.CaseState, error) {
	return s.WithFacts("Officer Diaz stopped the car."), nil
}

func (m *MockAnalysisService) TagEvents(_ context.Context, s domain.CaseState) (domain.CaseState, error) {
	return s.WithTaggedEvents([]domain.TaggedEvent{{Fact: "Officer Diaz stopped the car.", Tag: domain.TagTrafficStop}}), nil
}

func (m *MockAnalysisService) SpotIssues(_ context.Context, s domain.CaseState) (domain.CaseState, error) {
	return s.WithAnalysis([]string{"Unlawful stop"}, []string{"Suppress evidence"}), nil
}

func (m *MockAnalysisService) FindCaselaw(_ context.Context, s domain.CaseState) (domain.CaseState, error) {
	return s.WithCaselaw([]domain.CaselawRef{{
		Name:     "Delaware v. Prouse",
		Citation: "440 U.S. 648",
		Court:    "scotus",
		URL:      "https://www.courtlistener.com/opinion/1/",
	}}), nil
}

func (m *MockAnalysisService) DraftMotion(_ context.Context, s domain.CaseState) (domain.CaseState, error) {
	return s.WithMotion("COMES NOW the defendant."), nil
}

func (m *MockAnalysisService) Run(ctx context.Context, s domain.CaseState) (domain.CaseState, error) {
	m.seen = s
	if m.err != nil {
		return s, m.err
	}
	for _, stage := range []func(context.Context, domain.CaseState) (domain.CaseState, error){
		m.ExtractFacts, m.TagEvents, m.SpotIssues, m.FindCaselaw, m.DraftMotion,
	} {
		s, _ = stage(ctx, s)
	}
	return s, nil
}

// MockExportService renders "<format>|<title>|<body>".
type MockExportService struct{}

func (m *MockExportService) Export(format, title, body string) ([]byte, error) {
	if format != "docx" && format != "pdf" {
		return nil, domain.ErrUnsupportedType
	}
	return []byte(format + "|" + title + "|" + body), nil
}

func (m *MockExportService) Formats() []string { return []string{"docx", "pdf"} }

// MockDiagnosticsService returns fixed checks.
type MockDiagnosticsService struct {
	checks []domain.Check
}

func (m *MockDiagnosticsService) Check(_ context.Context) []domain.Check { return m.checks }

var testHistory driving.HistoryService

// setupTestServices installs mocks and returns a cleanup function.
func setupTestServices() func() {
	testHistory = services.NewHistoryService(memory.NewHistoryStore())
	SetServices(Services{
		Intake:   &MockIntakeService{},
		Analysis: &MockAnalysisService{},
		Export:   &MockExportService{},
		Settings: services.NewSettingsService(memory.NewConfigStore()),
		Uploads:  &MockUploadService{},
		Diagnostics: &MockDiagnosticsService{checks: []domain.Check{
			{Name: "ffmpeg", OK: true, Required: true},
			{Name: "llm", OK: true, Detail: "gpt-4o"},
		}},
		OpenHistory: func(path string) (driving.HistoryService, func() error, error) {
			if path == "" {
				return nil, nil, errors.New("no path")
			}
			return testHistory, func() error { return nil }, nil
		},
	})
	resetFlags()

	return func() {
		SetServices(Services{})
		resetFlags()
	}
}

// resetFlags restores every flag to its default so tests sharing
// rootCmd do not see each other's values.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
