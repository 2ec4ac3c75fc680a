package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/config/file"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/postprocessors"
)

// newTestAnalysis wires the real prompt store and post-processor pipeline.
func newTestAnalysis(t *testing.T, llm driven.LLMService, caselaw driven.CaselawSearcher, chunkSize int) *AnalysisService {
	t.Helper()

	prompts, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)

	reg := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(reg)
	cfg := domain.DefaultPipelineConfig()
	cfg.ProcessorConfigs["chunker"]["chunk_size"] = chunkSize
	pipeline, err := reg.BuildPipeline(cfg)
	require.NoError(t, err)

	return NewAnalysisService(llm, prompts, pipeline, caselaw, 2)
}

func caseWithCorpus(text string) domain.CaseState {
	return domain.NewCaseState("case-1", "People v. Doe", "ST-24-CR-101").
		WithCorpus(domain.CorpusDocument{Sections: []domain.CorpusSection{{SourceName: "a", Text: text}}})
}

const taggedReply = "```json\n" + `[
  {"fact": "Officer stopped the car.", "tag": "Traffic Stop"},
  {"fact": "Officer asked questions.", "tag": "Interrogation"},
  {"fact": "Weather was clear.", "tag": "Weather"}
]` + "\n```"

const issuesReply = `{"legal_issues": ["Miranda violation"], "possible_defenses": ["Suppress statements"]}`

func TestAnalysisService_ExtractFacts_OneCallPerChunk(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"  fact one\n", "fact two"}}
	svc := newTestAnalysis(t, llm, nil, 10)

	// "[a]\n" plus 16 characters is 20 runes: two windows of 10.
	state, err := svc.ExtractFacts(context.Background(), caseWithCorpus(strings.Repeat("x", 16)))

	require.NoError(t, err)
	assert.Equal(t, "fact one\n\nfact two", state.Facts)
	require.Len(t, llm.calls, 2)
	for _, c := range llm.calls {
		assert.True(t, c.opts.Deterministic)
		assert.Equal(t, "system", c.messages[0].Role)
	}
	assert.Contains(t, llm.userPrompt(0), "[a]\nxxxxxx")
	assert.Contains(t, llm.userPrompt(1), "xxxxxxxxxx")
}

func TestAnalysisService_ExtractFacts_FailureAborts(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"fact one", "fact two"}, failAt: 2}
	svc := newTestAnalysis(t, llm, nil, 10)
	in := caseWithCorpus(strings.Repeat("x", 16))

	out, err := svc.ExtractFacts(context.Background(), in)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 2 of 2")
	assert.Equal(t, in.Version, out.Version)
	assert.Empty(t, out.Facts)
}

func TestAnalysisService_ExtractFacts_Preconditions(t *testing.T) {
	svc := newTestAnalysis(t, &scriptedLLM{}, nil, 10)

	_, err := svc.ExtractFacts(context.Background(), domain.NewCaseState("c", "n", "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	noLLM := newTestAnalysis(t, nil, nil, 10)
	_, err = noLLM.ExtractFacts(context.Background(), caseWithCorpus("text"))
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAnalysisService_TagEvents_DropsUnknownTags(t *testing.T) {
	llm := &scriptedLLM{replies: []string{taggedReply}}
	svc := newTestAnalysis(t, llm, nil, 100)
	in := caseWithCorpus("text").WithFacts("Officer stopped the car.")

	state, err := svc.TagEvents(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []domain.TaggedEvent{
		{Fact: "Officer stopped the car.", Tag: domain.TagTrafficStop},
		{Fact: "Officer asked questions.", Tag: domain.TagInterrogation},
	}, state.TaggedEvents)
	assert.Contains(t, llm.userPrompt(0), string(domain.TagProbableCause))
	assert.False(t, llm.calls[0].opts.Deterministic)
}

func TestAnalysisService_TagEvents_BadJSON(t *testing.T) {
	svc := newTestAnalysis(t, &scriptedLLM{replies: []string{"not json"}}, nil, 100)

	_, err := svc.TagEvents(context.Background(), caseWithCorpus("text").WithFacts("f"))

	assert.ErrorContains(t, err, "decode model reply")
}

func TestAnalysisService_SpotIssues(t *testing.T) {
	llm := &scriptedLLM{replies: []string{issuesReply}}
	svc := newTestAnalysis(t, llm, nil, 100)
	in := caseWithCorpus("text").WithTaggedEvents([]domain.TaggedEvent{
		{Fact: "Officer asked questions.", Tag: domain.TagInterrogation},
	})

	state, err := svc.SpotIssues(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []string{"Miranda violation"}, state.Issues)
	assert.Equal(t, []string{"Suppress statements"}, state.Defenses)
	assert.Contains(t, llm.userPrompt(0), `"tag": "Interrogation"`)

	_, err = svc.SpotIssues(context.Background(), caseWithCorpus("text"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalysisService_FindCaselaw_DeduplicatesAcrossIssues(t *testing.T) {
	shared := domain.CaselawRef{Name: "Miranda v. Arizona", Citation: "384 U.S. 436"}
	caselaw := &stubCaselaw{results: map[string][]domain.CaselawRef{
		"Miranda violation":  {shared},
		"Unlawful detention": {shared, {Name: "Terry v. Ohio", Citation: "392 U.S. 1"}},
	}}
	svc := newTestAnalysis(t, &scriptedLLM{}, caselaw, 100)
	in := caseWithCorpus("text").
		WithJurisdiction("3rd").
		WithAnalysis([]string{"Miranda violation", "Unlawful detention"}, nil)

	state, err := svc.FindCaselaw(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []domain.CaselawRef{shared, {Name: "Terry v. Ohio", Citation: "392 U.S. 1"}}, state.Caselaw)
	assert.Equal(t, []caselawQuery{
		{query: "Miranda violation", court: "3rd", limit: 2},
		{query: "Unlawful detention", court: "3rd", limit: 2},
	}, caselaw.queries)
}

func TestAnalysisService_FindCaselaw_NotConfigured(t *testing.T) {
	svc := newTestAnalysis(t, &scriptedLLM{}, nil, 100)
	in := caseWithCorpus("text").WithAnalysis([]string{"Miranda violation"}, nil)

	state, err := svc.FindCaselaw(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, state.Caselaw)
	assert.Equal(t, in.Version+1, state.Version)
}

func TestAnalysisService_DraftMotion_UsesVerifiedCaselaw(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"\nMOTION TEXT\n"}}
	svc := newTestAnalysis(t, llm, nil, 100)
	in := caseWithCorpus("text").
		WithJurisdiction("vi").
		WithMotionType(domain.MotionSuppressEvidence).
		WithFacts("Officer searched the trunk.").
		WithCaselaw([]domain.CaselawRef{{Name: "Terry v. Ohio", Citation: "392 U.S. 1"}})

	state, err := svc.DraftMotion(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "MOTION TEXT", state.Motion)
	prompt := llm.userPrompt(0)
	assert.Contains(t, prompt, "392 U.S. 1")
	assert.Contains(t, prompt, domain.MotionSuppressEvidence.Title())
	assert.Contains(t, prompt, domain.JurisdictionLanguage("vi"))
	assert.Contains(t, prompt, "People v. Doe")
}

func TestAnalysisService_Run(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Officer stopped the car.", taggedReply, issuesReply, "MOTION"}}
	caselaw := &stubCaselaw{results: map[string][]domain.CaselawRef{
		"Miranda violation": {{Name: "Miranda v. Arizona", Citation: "384 U.S. 436"}},
	}}
	svc := newTestAnalysis(t, llm, caselaw, 4000)
	in := caseWithCorpus("Report text.")

	state, err := svc.Run(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "MOTION", state.Motion)
	assert.Len(t, state.TaggedEvents, 2)
	assert.Equal(t, []string{"Miranda violation"}, state.Issues)
	assert.Len(t, state.Caselaw, 1)
	assert.Equal(t, in.Version+5, state.Version)
	assert.Len(t, llm.calls, 4)
}

func TestAnalysisService_Run_StopsAtFirstFailure(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"Officer stopped the car.", "no json here"}}
	svc := newTestAnalysis(t, llm, nil, 4000)

	state, err := svc.Run(context.Background(), caseWithCorpus("Report text."))

	require.Error(t, err)
	assert.Equal(t, "Officer stopped the car.", state.Facts)
	assert.Empty(t, state.Motion)
	assert.Len(t, llm.calls, 2)
}

func TestDecodeJSON(t *testing.T) {
	var v []int

	require.NoError(t, decodeJSON("```json\n[1, 2]\n```", &v))
	assert.Equal(t, []int{1, 2}, v)

	require.NoError(t, decodeJSON("```\n[3]\n```", &v))
	assert.Equal(t, []int{3}, v)

	assert.Error(t, decodeJSON("[1,", &v))
}
