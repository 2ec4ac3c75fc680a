package extractors

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

var extensionKinds = map[string]domain.MediaKind{
	".pdf":  domain.KindPDF,
	".docx": domain.KindDOCX,
	".mp3":  domain.KindAudio,
	".wav":  domain.KindAudio,
	".m4a":  domain.KindAudio,
	".flac": domain.KindAudio,
	".ogg":  domain.KindAudio,
	".aac":  domain.KindAudio,
	".mp4":  domain.KindVideo,
	".avi":  domain.KindVideo,
	".mkv":  domain.KindVideo,
	".mov":  domain.KindVideo,
	".webm": domain.KindVideo,
}

// Classify returns the media kind for a declared content type and filename.
// The content type wins when it is recognised; the extension is the fallback.
func Classify(declaredType, name string) domain.MediaKind {
	if kind := classifyMIME(declaredType); kind != domain.KindUnsupported {
		return kind
	}
	if kind, ok := extensionKinds[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	return domain.KindUnsupported
}

func classifyMIME(declaredType string) domain.MediaKind {
	mediaType := strings.ToLower(strings.TrimSpace(declaredType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == "":
		return domain.KindUnsupported
	case strings.HasPrefix(mediaType, "video/"):
		return domain.KindVideo
	case strings.HasPrefix(mediaType, "audio/"):
		return domain.KindAudio
	case strings.Contains(mediaType, "pdf"):
		return domain.KindPDF
	case strings.Contains(mediaType, "wordprocessingml"), strings.Contains(mediaType, "msword"):
		return domain.KindDOCX
	default:
		return domain.KindUnsupported
	}
}
