package domain

// AudioProfile describes an encoder target.
type AudioProfile struct {
	// Name identifies the profile in logs.
	Name string

	// Codec is the encoder codec name (ffmpeg naming).
	Codec string

	// SampleRate is in Hz.
	SampleRate int

	// Channels is the channel count.
	Channels int

	// Extension is the output file extension including the dot.
	Extension string
}

// CanonicalPCM is single-channel, 16 kHz, 16-bit PCM: the normalised
// format every transcription upload is derived from.
var CanonicalPCM = AudioProfile{
	Name:       "canonical",
	Codec:      "pcm_s16le",
	SampleRate: 16000,
	Channels:   1,
	Extension:  ".wav",
}

// CompressedMP3 is the optional smaller upload format.
var CompressedMP3 = AudioProfile{
	Name:       "compressed",
	Codec:      "libmp3lame",
	SampleRate: 16000,
	Channels:   1,
	Extension:  ".mp3",
}

// IsCanonical returns true if the profile matches CanonicalPCM.
func (p AudioProfile) IsCanonical() bool {
	return p.Codec == CanonicalPCM.Codec &&
		p.SampleRate == CanonicalPCM.SampleRate &&
		p.Channels == CanonicalPCM.Channels
}

// JobStatus is the state of a speech-to-text job.
type JobStatus string

// Job states reported by the speech-to-text service.
const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// IsTerminal returns true once the job will not change again.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobError
}

// JobState is one poll response.
type JobState struct {
	ID     string
	Status JobStatus
	Text   string
	Error  string
}
