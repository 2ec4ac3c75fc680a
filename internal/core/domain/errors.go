package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates the dispatcher could not classify a file.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoAudioTrack indicates a video carries no audio stream to transcribe.
	ErrNoAudioTrack = errors.New("no audio track")

	// ErrEmptyExtraction indicates a file was read but yielded no text.
	ErrEmptyExtraction = errors.New("nothing extractable")

	// ErrTimeout indicates transcription polling exceeded its attempt bound.
	ErrTimeout = errors.New("timed out waiting for transcription")

	// ErrToolNotFound indicates a required external program is not installed.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Fact extraction, tagging and drafting are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrTranscriptionUnavailable indicates no speech-to-text service is configured.
	// Audio and video files fail extraction.
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")

	// ErrRateLimited indicates an external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Stage names an extraction step. It is carried on ExtractionError so
// callers can tell which part of a chain failed.
type Stage string

// Extraction stages.
const (
	StagePDFText     Stage = "pdf_text"
	StageRasterise   Stage = "rasterise"
	StageOCR         Stage = "ocr"
	StageDOCX        Stage = "docx"
	StageInput       Stage = "stage_input"
	StageProbe       Stage = "probe"
	StageDemux       Stage = "demux"
	StageFallback    Stage = "fallback_encode"
	StageCanonical   Stage = "canonical_encode"
	StageCompress    Stage = "compress"
	StageTranscribe  Stage = "transcribe"
	StageUnsupported Stage = "dispatch"
)

// ExtractionError is the structured failure of one extraction stage.
type ExtractionError struct {
	Stage  Stage
	Detail string
	Err    error
}

// NewExtractionError wraps err as a failure of the given stage.
func NewExtractionError(stage Stage, err error) *ExtractionError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &ExtractionError{Stage: stage, Detail: detail, Err: err}
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s failed", e.Stage)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Detail)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// TranscriptionErrorKind classifies how a transcription attempt failed.
type TranscriptionErrorKind string

// Transcription failure kinds. Upload and start failures happen before
// a job exists; the other two are terminal states of a job.
const (
	TranscriptionUploadFailed TranscriptionErrorKind = "upload_failed"
	TranscriptionStartFailed  TranscriptionErrorKind = "start_failed"
	TranscriptionFailed       TranscriptionErrorKind = "transcription_error"
	TranscriptionTimeout      TranscriptionErrorKind = "timeout"
)

// TranscriptionError is returned by the transcription client.
type TranscriptionError struct {
	Kind   TranscriptionErrorKind
	Detail string
	Err    error
}

func (e *TranscriptionError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure happened before the service
// accepted a job. Those are worth surfacing differently from a job the
// service itself rejected.
func (e *TranscriptionError) IsTransient() bool {
	return e.Kind == TranscriptionUploadFailed || e.Kind == TranscriptionStartFailed
}
