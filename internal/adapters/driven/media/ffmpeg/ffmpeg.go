// Package ffmpeg adapts the ffmpeg and ffprobe command-line tools to the
// audio probing, demuxing and encoding ports.
package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Tools implements the media ports.
var (
	_ driven.AudioProber  = (*Tools)(nil)
	_ driven.AudioDemuxer = (*Tools)(nil)
	_ driven.AudioEncoder = (*Tools)(nil)
)

// Default binary names, resolved on PATH.
const (
	DefaultFFmpegPath  = "ffmpeg"
	DefaultFFprobePath = "ffprobe"
)

// Tools runs ffmpeg and ffprobe through a CommandRunner.
type Tools struct {
	runner      driven.CommandRunner
	ffmpegPath  string
	ffprobePath string
}

// Option configures Tools.
type Option func(*Tools)

// WithFFmpegPath overrides the ffmpeg binary.
func WithFFmpegPath(path string) Option {
	return func(t *Tools) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithFFprobePath overrides the ffprobe binary.
func WithFFprobePath(path string) Option {
	return func(t *Tools) {
		if path != "" {
			t.ffprobePath = path
		}
	}
}

// New creates Tools backed by runner.
func New(runner driven.CommandRunner, opts ...Option) *Tools {
	t := &Tools{
		runner:      runner,
		ffmpegPath:  DefaultFFmpegPath,
		ffprobePath: DefaultFFprobePath,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HasAudio lists the audio streams of mediaPath and reports whether any exist.
func (t *Tools) HasAudio(ctx context.Context, mediaPath string) (bool, error) {
	out, err := t.runner.Run(ctx, t.ffprobePath,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		mediaPath,
	)
	if err != nil {
		return false, fmt.Errorf("probe audio: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "audio" {
			return true, nil
		}
	}
	return false, nil
}

// Demux decodes the first audio stream of videoPath to 16-bit PCM at outPath.
func (t *Tools) Demux(ctx context.Context, videoPath, outPath string) error {
	_, err := t.runner.Run(ctx, t.ffmpegPath,
		"-y",
		"-i", videoPath,
		"-vn",
		"-map", "0:a:0",
		"-acodec", "pcm_s16le",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("demux audio: %w", err)
	}
	return nonEmpty(outPath)
}

// Encode converts inPath to the given profile at outPath.
func (t *Tools) Encode(ctx context.Context, inPath, outPath string, profile domain.AudioProfile) error {
	_, err := t.runner.Run(ctx, t.ffmpegPath, encodeArgs(inPath, outPath, profile)...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", profile.Name, err)
	}
	return nonEmpty(outPath)
}

func encodeArgs(inPath, outPath string, profile domain.AudioProfile) []string {
	args := []string{"-y", "-i", inPath, "-vn"}
	if profile.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(profile.Channels))
	}
	if profile.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(profile.SampleRate))
	}
	if profile.Codec != "" {
		args = append(args, "-acodec", profile.Codec)
	}
	return append(args, outPath)
}

// nonEmpty checks that a tool actually wrote output.
func nonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("no output at %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("empty output at %s", path)
	}
	return nil
}
