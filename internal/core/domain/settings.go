package domain

import (
	"fmt"
	"time"
)

// IntakeSettings controls the extraction pipeline.
type IntakeSettings struct {
	// PollInterval is the wait between transcription status checks.
	PollInterval time.Duration

	// MaxPollAttempts bounds the number of status checks.
	MaxPollAttempts int

	// OCRDPI is the rasterisation resolution for OCR.
	OCRDPI int

	// OCRPageSegMode is the tesseract page segmentation mode.
	OCRPageSegMode int

	// CompressAudio re-encodes canonical audio to CompressedMP3 before upload.
	CompressAudio bool

	// Workers is the number of files extracted concurrently.
	// 1 reproduces strictly sequential processing.
	Workers int

	// FFmpegPath and FFprobePath locate the media tools.
	FFmpegPath  string
	FFprobePath string

	// TempDir is where per-file scratch directories are created.
	// Empty means os.TempDir().
	TempDir string
}

// Validate reports the first invalid field.
func (s IntakeSettings) Validate() error {
	switch {
	case s.PollInterval < 0:
		return fmt.Errorf("%w: poll interval must not be negative", ErrInvalidInput)
	case s.MaxPollAttempts <= 0:
		return fmt.Errorf("%w: max poll attempts must be positive", ErrInvalidInput)
	case s.OCRDPI <= 0:
		return fmt.Errorf("%w: OCR DPI must be positive", ErrInvalidInput)
	case s.OCRPageSegMode < 0 || s.OCRPageSegMode > 13:
		return fmt.Errorf("%w: OCR page segmentation mode must be 0-13", ErrInvalidInput)
	case s.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidInput)
	}
	return nil
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != ""
}

// Speech-to-text providers.
const (
	// TranscriptionAssemblyAI uploads audio and polls a transcription job.
	TranscriptionAssemblyAI = "assemblyai"

	// TranscriptionWhisper posts audio to the OpenAI transcription
	// endpoint and gets the text back in the same response. It shares
	// the OpenAI key with the LLM.
	TranscriptionWhisper = "whisper"
)

// TranscriptionSettings holds speech-to-text configuration.
type TranscriptionSettings struct {
	// Provider is TranscriptionAssemblyAI or TranscriptionWhisper.
	Provider string

	BaseURL string
	APIKey  string
}

// IsConfigured returns true if the speech-to-text provider is set up.
func (t TranscriptionSettings) IsConfigured() bool {
	return t.APIKey != ""
}

// UsesWhisper reports whether audio goes to the OpenAI endpoint.
func (t TranscriptionSettings) UsesWhisper() bool {
	return t.Provider == TranscriptionWhisper
}

// KeyVariable names the environment variable holding the provider's key.
func (t TranscriptionSettings) KeyVariable() string {
	if t.UsesWhisper() {
		return "OPENAI_API_KEY"
	}
	return "ASSEMBLYAI_API_KEY"
}

// Validate checks the provider name. Empty means the default.
func (t TranscriptionSettings) Validate() error {
	switch t.Provider {
	case "", TranscriptionAssemblyAI, TranscriptionWhisper:
		return nil
	}
	return fmt.Errorf("%w: unknown transcription provider %q (available: %s, %s)",
		ErrInvalidInput, t.Provider, TranscriptionAssemblyAI, TranscriptionWhisper)
}

// CaselawSettings holds caselaw search configuration.
type CaselawSettings struct {
	BaseURL string

	// APIToken is optional; anonymous requests are rate limited harder.
	APIToken string

	// ResultsPerIssue caps opinions fetched per issue.
	ResultsPerIssue int

	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Intake        IntakeSettings
	Transcription TranscriptionSettings
	LLM           LLMSettings
	Caselaw       CaselawSettings
	Pipeline      PipelineConfig
}

// Default tuning values.
const (
	DefaultPollInterval    = 3 * time.Second
	DefaultMaxPollAttempts = 60
	DefaultOCRDPI          = 300
	DefaultOCRPageSegMode  = 6
	DefaultFactChunkSize   = 4000
	DefaultLLMModel        = "gpt-4o"
	DefaultWhisperModel    = "whisper-1"
	DefaultResultsPerIssue = 3
)

// DefaultIntakeSettings returns the reference pipeline behaviour.
func DefaultIntakeSettings() IntakeSettings {
	return IntakeSettings{
		PollInterval:    DefaultPollInterval,
		MaxPollAttempts: DefaultMaxPollAttempts,
		OCRDPI:          DefaultOCRDPI,
		OCRPageSegMode:  DefaultOCRPageSegMode,
		CompressAudio:   false,
		Workers:         1,
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Intake: DefaultIntakeSettings(),
		Transcription: TranscriptionSettings{
			Provider: TranscriptionAssemblyAI,
		},
		LLM: LLMSettings{
			Model: DefaultLLMModel,
		},
		Caselaw: CaselawSettings{
			ResultsPerIssue:   DefaultResultsPerIssue,
			RequestsPerSecond: 1,
		},
		Pipeline: DefaultPipelineConfig(),
	}
}

// PipelineConfig holds corpus post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig sanitises the corpus and splits it into the
// fixed-size windows used for fact extraction.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"sanitizer", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultFactChunkSize,
				"overlap":    0,
			},
		},
	}
}
