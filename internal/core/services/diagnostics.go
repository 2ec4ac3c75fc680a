package services

import (
	"context"
	"errors"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
)

// Ensure DiagnosticsService implements the interface.
var _ driving.DiagnosticsService = (*DiagnosticsService)(nil)

// External programs the OCR path needs besides ffmpeg.
const (
	RasteriserTool = "pdftoppm"
	OCRTool        = "tesseract"
)

// DiagnosticsService checks the tools and APIs the pipeline depends on.
type DiagnosticsService struct {
	settings domain.AppSettings
	tools    driven.ToolChecker
	llm      driven.LLMService
}

// NewDiagnosticsService creates a diagnostics service.
// llm may be nil when no LLM key is configured.
func NewDiagnosticsService(settings domain.AppSettings, tools driven.ToolChecker, llm driven.LLMService) *DiagnosticsService {
	return &DiagnosticsService{
		settings: settings,
		tools:    tools,
		llm:      llm,
	}
}

// Check runs every check in a fixed order. Missing tools are required;
// API checks are not, since their absence only fails the affected files.
func (s *DiagnosticsService) Check(ctx context.Context) []domain.Check {
	var checks []domain.Check

	for _, tool := range []string{
		s.settings.Intake.FFmpegPath,
		s.settings.Intake.FFprobePath,
		RasteriserTool,
		OCRTool,
	} {
		c := domain.Check{Name: tool, Required: true, OK: true}
		if s.tools == nil {
			c.OK = false
			c.Detail = "tool checker not configured"
		} else if err := s.tools.Available(tool); err != nil {
			c.OK = false
			c.Detail = err.Error()
		}
		checks = append(checks, c)
	}

	tr := s.settings.Transcription
	transcription := domain.Check{Name: "transcription", OK: tr.IsConfigured(), Detail: tr.Provider}
	if !transcription.OK {
		transcription.Detail = tr.KeyVariable() + " not set"
	}
	checks = append(checks, transcription)

	checks = append(checks, s.checkLLM(ctx))

	caselaw := domain.Check{Name: "caselaw", OK: true}
	if s.settings.Caselaw.APIToken == "" {
		caselaw.Detail = "anonymous access"
	}
	checks = append(checks, caselaw)

	return checks
}

func (s *DiagnosticsService) checkLLM(ctx context.Context) domain.Check {
	c := domain.Check{Name: "llm"}
	if s.llm == nil {
		c.Detail = "OPENAI_API_KEY not set"
		return c
	}
	if err := s.llm.Ping(ctx); err != nil {
		c.Detail = err.Error()
		if errors.Is(err, domain.ErrRateLimited) {
			c.Detail = "rate limited"
		}
		return c
	}
	c.OK = true
	c.Detail = strings.TrimSpace(s.llm.ModelName())
	return c
}
