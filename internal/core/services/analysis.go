package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService runs fact extraction, tagging, issue spotting,
// caselaw lookup and drafting over a CaseState.
type AnalysisService struct {
	llm             driven.LLMService
	prompts         driven.PromptStore
	pipeline        driven.PostProcessorPipeline
	caselaw         driven.CaselawSearcher
	resultsPerIssue int
}

// NewAnalysisService creates an analysis service.
// llm may be nil, in which case every LLM stage returns ErrLLMUnavailable.
// caselaw may be nil, in which case FindCaselaw records no opinions.
func NewAnalysisService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	pipeline driven.PostProcessorPipeline,
	caselaw driven.CaselawSearcher,
	resultsPerIssue int,
) *AnalysisService {
	if resultsPerIssue <= 0 {
		resultsPerIssue = domain.DefaultResultsPerIssue
	}
	return &AnalysisService{
		llm:             llm,
		prompts:         prompts,
		pipeline:        pipeline,
		caselaw:         caselaw,
		resultsPerIssue: resultsPerIssue,
	}
}

type factsPromptData struct {
	CaseName   string
	CaseNumber string
	Part       int
	Parts      int
	Chunk      string
}

type tagPromptData struct {
	Tags  string
	Facts string
}

type issuesPromptData struct {
	TaggedEvents string
}

type motionPromptData struct {
	Title      string
	CaseName   string
	CaseNumber string
	Facts      string
	Issues     string
	Defenses   string
	Caselaw    string
	Opening    string
}

// ExtractFacts splits the corpus into fixed windows and asks the LLM for
// the facts in each, joining the answers with blank lines. An error on any
// window aborts the stage.
func (s *AnalysisService) ExtractFacts(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	if s.llm == nil {
		return state, domain.ErrLLMUnavailable
	}
	if state.Corpus.IsEmpty() {
		return state, fmt.Errorf("extract facts: empty corpus: %w", domain.ErrInvalidInput)
	}
	if s.pipeline == nil {
		return state, fmt.Errorf("extract facts: post-processor pipeline not configured")
	}

	logger.Section("Fact extraction")
	doc := &domain.TextDocument{ID: state.ID, Content: state.Corpus.String()}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return state, fmt.Errorf("extract facts: %w", err)
	}
	if len(chunks) == 0 {
		return state, fmt.Errorf("extract facts: corpus has no text after sanitising: %w", domain.ErrInvalidInput)
	}

	system, err := s.prompts.Load(driven.PromptFactsSystem)
	if err != nil {
		return state, fmt.Errorf("extract facts: %w", err)
	}

	facts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt, err := s.render(driven.PromptFacts, factsPromptData{
			CaseName:   state.CaseName,
			CaseNumber: state.CaseNumber,
			Part:       i + 1,
			Parts:      len(chunks),
			Chunk:      chunk.Content,
		})
		if err != nil {
			return state, fmt.Errorf("extract facts: %w", err)
		}

		logger.Debug("extracting facts from chunk %d of %d", i+1, len(chunks))
		out, err := s.llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		}, driven.ChatOptions{Deterministic: true})
		if err != nil {
			return state, fmt.Errorf("extract facts: chunk %d of %d: %w", i+1, len(chunks), err)
		}
		facts = append(facts, strings.TrimSpace(out))
	}

	return state.WithFacts(strings.Join(facts, "\n\n")), nil
}

// TagEvents classifies each fact into the closed legal-event vocabulary.
// Events with tags outside the vocabulary are dropped.
func (s *AnalysisService) TagEvents(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	if s.llm == nil {
		return state, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(state.Facts) == "" {
		return state, fmt.Errorf("tag events: no facts: %w", domain.ErrInvalidInput)
	}

	tags := domain.LegalEventTags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}

	out, err := s.ask(ctx, driven.PromptTagEvents, tagPromptData{
		Tags:  strings.Join(names, ", "),
		Facts: state.Facts,
	})
	if err != nil {
		return state, fmt.Errorf("tag events: %w", err)
	}

	var events []domain.TaggedEvent
	if err := decodeJSON(out, &events); err != nil {
		return state, fmt.Errorf("tag events: %w", err)
	}

	kept := events[:0]
	for _, e := range events {
		if !e.Tag.IsValid() {
			logger.Warn("dropping event with unknown tag %q", e.Tag)
			continue
		}
		kept = append(kept, e)
	}
	return state.WithTaggedEvents(kept), nil
}

type issuesResponse struct {
	LegalIssues      []string `json:"legal_issues"`
	PossibleDefenses []string `json:"possible_defenses"`
}

// SpotIssues derives constitutional or procedural issues and possible
// defenses from the tagged events.
func (s *AnalysisService) SpotIssues(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	if s.llm == nil {
		return state, domain.ErrLLMUnavailable
	}
	if len(state.TaggedEvents) == 0 {
		return state, fmt.Errorf("spot issues: no tagged events: %w", domain.ErrInvalidInput)
	}

	tagged, err := json.MarshalIndent(state.TaggedEvents, "", "  ")
	if err != nil {
		return state, fmt.Errorf("spot issues: %w", err)
	}

	out, err := s.ask(ctx, driven.PromptIssues, issuesPromptData{TaggedEvents: string(tagged)})
	if err != nil {
		return state, fmt.Errorf("spot issues: %w", err)
	}

	var resp issuesResponse
	if err := decodeJSON(out, &resp); err != nil {
		return state, fmt.Errorf("spot issues: %w", err)
	}
	return state.WithAnalysis(resp.LegalIssues, resp.PossibleDefenses), nil
}

// FindCaselaw searches opinions for each issue, dropping duplicates that
// appear under more than one issue.
func (s *AnalysisService) FindCaselaw(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	if s.caselaw == nil {
		logger.Warn("caselaw search not configured; motion will cite no cases")
		return state.WithCaselaw(nil), nil
	}

	seen := make(map[string]bool)
	var refs []domain.CaselawRef
	for _, issue := range state.Issues {
		found, err := s.caselaw.Search(ctx, issue, state.Jurisdiction, s.resultsPerIssue)
		if err != nil {
			return state, fmt.Errorf("find caselaw for %q: %w", issue, err)
		}
		for _, ref := range found {
			key := ref.Citation
			if key == "" {
				key = ref.URL
			}
			if key != "" && seen[key] {
				continue
			}
			seen[key] = true
			refs = append(refs, ref)
		}
		logger.Debug("caselaw: %d opinions for %q", len(found), issue)
	}
	return state.WithCaselaw(refs), nil
}

// DraftMotion writes the motion using only the verified caselaw on the state.
func (s *AnalysisService) DraftMotion(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	if s.llm == nil {
		return state, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(state.Facts) == "" {
		return state, fmt.Errorf("draft motion: no facts: %w", domain.ErrInvalidInput)
	}

	issues, err := indentJSON(nonNil(state.Issues))
	if err != nil {
		return state, fmt.Errorf("draft motion: %w", err)
	}
	defenses, err := indentJSON(nonNil(state.Defenses))
	if err != nil {
		return state, fmt.Errorf("draft motion: %w", err)
	}
	caselaw, err := indentJSON(nonNil(state.Caselaw))
	if err != nil {
		return state, fmt.Errorf("draft motion: %w", err)
	}

	out, err := s.ask(ctx, driven.PromptMotion, motionPromptData{
		Title:      state.MotionType.Title(),
		CaseName:   state.CaseName,
		CaseNumber: state.CaseNumber,
		Facts:      state.Facts,
		Issues:     issues,
		Defenses:   defenses,
		Caselaw:    caselaw,
		Opening:    domain.JurisdictionLanguage(state.Jurisdiction),
	})
	if err != nil {
		return state, fmt.Errorf("draft motion: %w", err)
	}
	return state.WithMotion(strings.TrimSpace(out)), nil
}

// Run executes every stage in order, stopping at the first error.
// The returned state carries everything completed before the failure.
func (s *AnalysisService) Run(ctx context.Context, state domain.CaseState) (domain.CaseState, error) {
	stages := []struct {
		name string
		fn   func(context.Context, domain.CaseState) (domain.CaseState, error)
	}{
		{"facts", s.ExtractFacts},
		{"tags", s.TagEvents},
		{"issues", s.SpotIssues},
		{"caselaw", s.FindCaselaw},
		{"motion", s.DraftMotion},
	}

	for _, stage := range stages {
		next, err := stage.fn(ctx, state)
		if err != nil {
			return state, err
		}
		logger.Debug("stage %s done (version %d)", stage.name, next.Version)
		state = next
	}
	return state, nil
}

// ask sends one templated prompt under the shared legal system prompt.
func (s *AnalysisService) ask(ctx context.Context, name string, data any) (string, error) {
	system, err := s.prompts.Load(driven.PromptLegalSystem)
	if err != nil {
		return "", err
	}
	prompt, err := s.render(name, data)
	if err != nil {
		return "", err
	}
	return s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{})
}

func (s *AnalysisService) render(name string, data any) (string, error) {
	text, err := s.prompts.Load(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return b.String(), nil
}

// decodeJSON parses a model reply, tolerating a fenced code block.
func decodeJSON(reply string, v any) error {
	body := strings.TrimSpace(reply)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), v); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

func indentJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
