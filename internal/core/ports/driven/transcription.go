package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// SpeechToText is the raw speech-to-text API.
type SpeechToText interface {
	// Upload sends the audio file and returns a reference the service
	// can transcribe from.
	Upload(ctx context.Context, audioPath string) (string, error)

	// Start requests a transcription job and returns its ID.
	Start(ctx context.Context, audioRef string) (string, error)

	// Poll returns the job's current state.
	Poll(ctx context.Context, jobID string) (domain.JobState, error)
}

// Transcriber turns a local audio file into text.
// Failures are *domain.TranscriptionError.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
