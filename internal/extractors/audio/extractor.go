// Package audio transcribes uploaded audio recordings.
package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor uploads the recording to a transcriber as-is.
type Extractor struct {
	transcriber driven.Transcriber
	tempDir     string
}

// New creates an audio extractor. tempDir may be empty.
func New(transcriber driven.Transcriber, tempDir string) *Extractor {
	return &Extractor{transcriber: transcriber, tempDir: tempDir}
}

// Kind returns domain.KindAudio.
func (e *Extractor) Kind() domain.MediaKind {
	return domain.KindAudio
}

// Extract writes the recording to a scratch file and transcribes it.
func (e *Extractor) Extract(ctx context.Context, file *domain.IntakeFile) (string, error) {
	if file == nil {
		return "", domain.NewExtractionError(domain.StageInput, domain.ErrInvalidInput)
	}
	if e.transcriber == nil {
		return "", domain.NewExtractionError(domain.StageTranscribe, domain.ErrTranscriptionUnavailable)
	}

	dir, err := os.MkdirTemp(e.tempDir, "exonascope-audio-*")
	if err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input"+strings.ToLower(filepath.Ext(file.Name)))
	if err := os.WriteFile(path, file.Content, 0600); err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}

	text, err := e.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageTranscribe, err)
	}
	return text, nil
}
