package driven

import (
	"context"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// AudioProber inspects a media container.
type AudioProber interface {
	// HasAudio reports whether the file carries at least one audio stream.
	HasAudio(ctx context.Context, mediaPath string) (bool, error)
}

// AudioDemuxer pulls the audio track out of a video container.
type AudioDemuxer interface {
	Demux(ctx context.Context, videoPath, outPath string) error
}

// AudioEncoder converts media to a given audio profile.
// Success means the output file exists and is non-empty.
type AudioEncoder interface {
	Encode(ctx context.Context, inPath, outPath string, profile domain.AudioProfile) error
}
