package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// scriptedLLM replies from a fixed list and records every request.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	failAt  int // 1-based call number that fails; 0 never fails
	calls   []llmCall
	pingErr error
}

type llmCall struct {
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *scriptedLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, llmCall{messages: messages, opts: opts})
	n := len(m.calls)
	if n == m.failAt {
		return "", errors.New("model overloaded")
	}
	if n > len(m.replies) {
		return "", fmt.Errorf("unexpected call %d", n)
	}
	return m.replies[n-1], nil
}

func (m *scriptedLLM) ModelName() string            { return "test-model" }
func (m *scriptedLLM) Ping(_ context.Context) error { return m.pingErr }
func (m *scriptedLLM) Close() error                 { return nil }

func (m *scriptedLLM) userPrompt(i int) string {
	for _, msg := range m.calls[i].messages {
		if msg.Role == "user" {
			return msg.Content
		}
	}
	return ""
}

type caselawQuery struct {
	query string
	court string
	limit int
}

// stubCaselaw returns canned opinions keyed by query.
type stubCaselaw struct {
	results map[string][]domain.CaselawRef
	err     error
	queries []caselawQuery
}

func (m *stubCaselaw) Search(_ context.Context, query, court string, limit int) ([]domain.CaselawRef, error) {
	m.queries = append(m.queries, caselawQuery{query: query, court: court, limit: limit})
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

// stubSpeech scripts an upload, a start and a sequence of poll states.
type stubSpeech struct {
	uploadErr error
	startErr  error
	states    []domain.JobState
	pollErr   error
	polls     int
	uploaded  string
}

func (m *stubSpeech) Upload(_ context.Context, audioPath string) (string, error) {
	m.uploaded = audioPath
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return "https://cdn.example/" + audioPath, nil
}

func (m *stubSpeech) Start(_ context.Context, _ string) (string, error) {
	if m.startErr != nil {
		return "", m.startErr
	}
	return "job-1", nil
}

func (m *stubSpeech) Poll(_ context.Context, _ string) (domain.JobState, error) {
	m.polls++
	if m.pollErr != nil {
		return domain.JobState{}, m.pollErr
	}
	if m.polls > len(m.states) {
		return domain.JobState{Status: domain.JobProcessing}, nil
	}
	return m.states[m.polls-1], nil
}

// stubRegistry returns results keyed by file name.
type stubRegistry struct {
	mu      sync.Mutex
	results map[string]domain.ExtractionResult
	seen    []string
}

func (m *stubRegistry) Classify(_ *domain.IntakeFile) domain.MediaKind { return domain.KindPDF }

func (m *stubRegistry) Extract(_ context.Context, file *domain.IntakeFile) domain.ExtractionResult {
	m.mu.Lock()
	m.seen = append(m.seen, file.Name)
	m.mu.Unlock()
	if r, ok := m.results[file.Name]; ok {
		return r
	}
	return domain.UnsupportedResult(file.Name)
}

func (m *stubRegistry) Register(_ driven.Extractor) {}

func (m *stubRegistry) SupportedKinds() []domain.MediaKind { return nil }

// stubToolChecker reports the listed tools as missing.
type stubToolChecker struct {
	missing map[string]bool
}

func (m *stubToolChecker) Available(names ...string) error {
	var errs []error
	for _, n := range names {
		if m.missing[n] {
			errs = append(errs, fmt.Errorf("%s: %w", n, domain.ErrToolNotFound))
		}
	}
	return errors.Join(errs...)
}
