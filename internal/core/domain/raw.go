package domain

// IntakeFile is one uploaded artifact awaiting extraction.
// Content is owned by the pipeline invocation that receives it; callers
// that need the bytes afterwards must keep their own copy.
type IntakeFile struct {
	// Name is the original filename.
	Name string

	// DeclaredType is the sniffed content type (e.g., "application/pdf").
	DeclaredType string

	// Content is the raw bytes.
	Content []byte
}

// MediaKind is the dispatcher's classification of an IntakeFile.
type MediaKind string

// Supported media kinds.
const (
	KindPDF         MediaKind = "pdf"
	KindDOCX        MediaKind = "docx"
	KindAudio       MediaKind = "audio"
	KindVideo       MediaKind = "video"
	KindUnsupported MediaKind = "unsupported"
)

// IsSupported returns true if an extractor exists for the kind.
func (k MediaKind) IsSupported() bool {
	switch k {
	case KindPDF, KindDOCX, KindAudio, KindVideo:
		return true
	default:
		return false
	}
}

// IsMedia returns true for kinds that go through transcription.
func (k MediaKind) IsMedia() bool {
	return k == KindAudio || k == KindVideo
}

// String returns the string representation.
func (k MediaKind) String() string {
	return string(k)
}

// ChangeType represents the type of change seen in an uploads folder.
type ChangeType int

const (
	// ChangeCreated indicates a new upload.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates an upload was rewritten.
	ChangeUpdated

	// ChangeDeleted indicates an upload was removed.
	ChangeDeleted
)

// UploadChange is a change event from an uploads folder watcher.
type UploadChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the affected file on disk.
	Path string
}

// UploadEvent is the outcome of ingesting one file that arrived in a
// watched uploads folder.
type UploadEvent struct {
	// Path is the file on disk.
	Path string

	// Report is set when the file was read and ingested.
	Report *IntakeReport

	// Err is set when the file could not be read or ingested.
	Err error
}
