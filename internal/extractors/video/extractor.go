// Package video transcribes the audio track of uploaded video files.
//
// The audio is pulled out with a demuxer; if that fails or yields nothing,
// the encoder converts the source video directly instead. Either way the
// result is normalised to canonical PCM before upload.
package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Scratch file names inside the per-invocation directory.
const (
	extractedName = "extracted.wav"
	fallbackName  = "fallback.wav"
	canonicalName = "canonical.wav"
	uploadName    = "upload.mp3"
)

// Extractor runs the video audio-extraction chain.
type Extractor struct {
	prober      driven.AudioProber
	demuxer     driven.AudioDemuxer
	encoder     driven.AudioEncoder
	transcriber driven.Transcriber
	compress    bool
	tempDir     string
}

// Option configures the extractor.
type Option func(*Extractor)

// WithCompression uploads a compressed MP3 instead of canonical PCM.
func WithCompression(enabled bool) Option {
	return func(e *Extractor) {
		e.compress = enabled
	}
}

// WithTempDir sets where scratch directories are created.
func WithTempDir(dir string) Option {
	return func(e *Extractor) {
		e.tempDir = dir
	}
}

// New creates a video extractor.
func New(
	prober driven.AudioProber,
	demuxer driven.AudioDemuxer,
	encoder driven.AudioEncoder,
	transcriber driven.Transcriber,
	opts ...Option,
) *Extractor {
	e := &Extractor{
		prober:      prober,
		demuxer:     demuxer,
		encoder:     encoder,
		transcriber: transcriber,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns domain.KindVideo.
func (e *Extractor) Kind() domain.MediaKind {
	return domain.KindVideo
}

// Extract probes, extracts, normalises and transcribes the audio track.
// Every scratch file lives in one directory removed on return.
func (e *Extractor) Extract(ctx context.Context, file *domain.IntakeFile) (string, error) {
	if file == nil {
		return "", domain.NewExtractionError(domain.StageInput, domain.ErrInvalidInput)
	}
	if e.prober == nil || e.demuxer == nil || e.encoder == nil {
		return "", domain.NewExtractionError(domain.StageProbe, domain.ErrToolNotFound)
	}
	if e.transcriber == nil {
		return "", domain.NewExtractionError(domain.StageTranscribe, domain.ErrTranscriptionUnavailable)
	}

	dir, err := os.MkdirTemp(e.tempDir, "exonascope-video-*")
	if err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}
	defer os.RemoveAll(dir)

	ext := strings.ToLower(filepath.Ext(file.Name))
	if ext == "" {
		ext = ".mp4"
	}
	source := filepath.Join(dir, "source"+ext)
	if err := os.WriteFile(source, file.Content, 0600); err != nil {
		return "", domain.NewExtractionError(domain.StageInput, err)
	}

	hasAudio, err := e.prober.HasAudio(ctx, source)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageProbe, err)
	}
	if !hasAudio {
		return "", domain.NewExtractionError(domain.StageProbe, domain.ErrNoAudioTrack)
	}

	canonical, err := e.canonicalAudio(ctx, dir, source)
	if err != nil {
		return "", err
	}

	upload := e.uploadFile(ctx, dir, canonical)
	logger.WithField("file", file.Name).WithField("upload", filepath.Base(upload)).Debug("transcribing video audio")

	text, err := e.transcriber.Transcribe(ctx, upload)
	if err != nil {
		return "", domain.NewExtractionError(domain.StageTranscribe, err)
	}
	return text, nil
}

// canonicalAudio returns the path of a canonical PCM rendition of the
// source's audio track.
func (e *Extractor) canonicalAudio(ctx context.Context, dir, source string) (string, error) {
	extracted := filepath.Join(dir, extractedName)
	primaryErr := e.demuxer.Demux(ctx, source, extracted)
	if primaryErr == nil && !nonEmpty(extracted) {
		primaryErr = errors.New("demuxer produced no audio")
	}

	if primaryErr == nil {
		canonical := filepath.Join(dir, canonicalName)
		if err := e.encoder.Encode(ctx, extracted, canonical, domain.CanonicalPCM); err != nil {
			return "", domain.NewExtractionError(domain.StageCanonical, err)
		}
		return canonical, nil
	}

	logger.WithError(primaryErr).Debug("primary audio extraction failed, using fallback encoder")
	fallback := filepath.Join(dir, fallbackName)
	if err := e.encoder.Encode(ctx, source, fallback, domain.CanonicalPCM); err != nil {
		return "", domain.NewExtractionError(domain.StageFallback,
			fmt.Errorf("%w (after primary extraction failed: %v)", err, primaryErr))
	}
	return fallback, nil
}

// uploadFile optionally compresses the canonical audio. A compression
// failure falls back to uploading the canonical file.
func (e *Extractor) uploadFile(ctx context.Context, dir, canonical string) string {
	if !e.compress {
		return canonical
	}
	compressed := filepath.Join(dir, uploadName)
	if err := e.encoder.Encode(ctx, canonical, compressed, domain.CompressedMP3); err != nil {
		logger.WithError(domain.NewExtractionError(domain.StageCompress, err)).Warn("uploading uncompressed audio")
		return canonical
	}
	return compressed
}

func nonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
