package services

import (
	"context"
	"fmt"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure TranscriptionService implements the interface.
var _ driven.Transcriber = (*TranscriptionService)(nil)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// TranscriptionService drives a speech-to-text job from upload to text.
type TranscriptionService struct {
	api         driven.SpeechToText
	interval    time.Duration
	maxAttempts int
	sleep       SleepFunc
}

// TranscriptionOption configures a TranscriptionService.
type TranscriptionOption func(*TranscriptionService)

// WithPollInterval sets the wait between status checks.
func WithPollInterval(d time.Duration) TranscriptionOption {
	return func(s *TranscriptionService) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithMaxPollAttempts bounds the number of status checks.
func WithMaxPollAttempts(n int) TranscriptionOption {
	return func(s *TranscriptionService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithSleep replaces the wait between polls.
func WithSleep(fn SleepFunc) TranscriptionOption {
	return func(s *TranscriptionService) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// NewTranscriptionService creates a transcriber over the given API.
func NewTranscriptionService(api driven.SpeechToText, opts ...TranscriptionOption) *TranscriptionService {
	s := &TranscriptionService{
		api:         api,
		interval:    domain.DefaultPollInterval,
		maxAttempts: domain.DefaultMaxPollAttempts,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcribe uploads the file, starts a job and polls until it finishes.
// At most maxAttempts polls are made and there is no wait after the last.
func (s *TranscriptionService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if s.api == nil {
		return "", &domain.TranscriptionError{
			Kind: domain.TranscriptionUploadFailed,
			Err:  domain.ErrTranscriptionUnavailable,
		}
	}

	ref, err := s.api.Upload(ctx, audioPath)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionUploadFailed, Detail: err.Error(), Err: err}
	}

	jobID, err := s.api.Start(ctx, ref)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionStartFailed, Detail: err.Error(), Err: err}
	}
	logger.Debug("transcription job %s started", jobID)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		state, err := s.api.Poll(ctx, jobID)
		if err != nil {
			return "", &domain.TranscriptionError{
				Kind:   domain.TranscriptionFailed,
				Detail: fmt.Sprintf("poll %d: %v", attempt, err),
				Err:    err,
			}
		}

		switch state.Status {
		case domain.JobCompleted:
			logger.Debug("transcription job %s completed after %d polls", jobID, attempt)
			return state.Text, nil
		case domain.JobError:
			return "", &domain.TranscriptionError{Kind: domain.TranscriptionFailed, Detail: state.Error}
		}

		if attempt == s.maxAttempts {
			break
		}
		if err := s.sleep(ctx, s.interval); err != nil {
			return "", &domain.TranscriptionError{Kind: domain.TranscriptionFailed, Detail: err.Error(), Err: err}
		}
	}

	return "", &domain.TranscriptionError{
		Kind:   domain.TranscriptionTimeout,
		Detail: fmt.Sprintf("job %s not finished after %d polls", jobID, s.maxAttempts),
		Err:    domain.ErrTimeout,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
