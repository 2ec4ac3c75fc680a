package driving

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// AnalysisService runs the legal workflow over an ingested corpus.
// Each stage takes a CaseState and returns the next one.
type AnalysisService interface {
	// ExtractFacts lists the corpus facts in chronological order.
	ExtractFacts(ctx context.Context, state domain.CaseState) (domain.CaseState, error)

	// TagEvents classifies the facts into legal-event tags.
	TagEvents(ctx context.Context, state domain.CaseState) (domain.CaseState, error)

	// SpotIssues derives legal issues and possible defenses from tagged events.
	SpotIssues(ctx context.Context, state domain.CaseState) (domain.CaseState, error)

	// FindCaselaw looks up opinions for each issue.
	FindCaselaw(ctx context.Context, state domain.CaseState) (domain.CaseState, error)

	// DraftMotion writes the motion from facts, issues and verified caselaw.
	DraftMotion(ctx context.Context, state domain.CaseState) (domain.CaseState, error)

	// Run executes every stage in order.
	Run(ctx context.Context, state domain.CaseState) (domain.CaseState, error)
}
