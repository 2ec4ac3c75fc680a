package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNoAudioTrack", ErrNoAudioTrack},
		{"ErrEmptyExtraction", ErrEmptyExtraction},
		{"ErrTimeout", ErrTimeout},
		{"ErrToolNotFound", ErrToolNotFound},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrTranscriptionUnavailable", ErrTranscriptionUnavailable},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNoAudioTrack, ErrTimeout))
	assert.False(t, errors.Is(ErrUnsupportedType, ErrInvalidInput))
}

func TestExtractionError_Message(t *testing.T) {
	err := NewExtractionError(StageDemux, errors.New("moov atom not found"))
	assert.Equal(t, "demux failed: moov atom not found", err.Error())
	assert.Equal(t, StageDemux, err.Stage)
	assert.Equal(t, "moov atom not found", err.Detail)
}

func TestExtractionError_NilCause(t *testing.T) {
	err := NewExtractionError(StageOCR, nil)
	assert.Equal(t, "ocr failed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestExtractionError_Unwrap(t *testing.T) {
	err := NewExtractionError(StageProbe, ErrNoAudioTrack)
	wrapped := fmt.Errorf("video: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNoAudioTrack))

	var extErr *ExtractionError
	require.True(t, errors.As(wrapped, &extErr))
	assert.Equal(t, StageProbe, extErr.Stage)
}

func TestTranscriptionError(t *testing.T) {
	tests := []struct {
		name      string
		kind      TranscriptionErrorKind
		transient bool
	}{
		{"upload", TranscriptionUploadFailed, true},
		{"start", TranscriptionStartFailed, true},
		{"job error", TranscriptionFailed, false},
		{"timeout", TranscriptionTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &TranscriptionError{Kind: tt.kind, Detail: "boom"}
			assert.Equal(t, tt.transient, err.IsTransient())
			assert.Equal(t, string(tt.kind)+": boom", err.Error())
		})
	}
}

func TestTranscriptionError_WrapsTimeout(t *testing.T) {
	err := &TranscriptionError{Kind: TranscriptionTimeout, Err: ErrTimeout}
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "timeout", err.Error())
}
