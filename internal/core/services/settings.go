package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage. API keys are never stored here;
// they come from the environment.
const (
	keyPollInterval     = "intake.poll_interval_seconds"
	keyMaxPollAttempts  = "intake.max_poll_attempts"
	keyOCRDPI           = "intake.ocr_dpi"
	keyOCRPageSegMode   = "intake.ocr_psm"
	keyCompressAudio    = "intake.compress_audio"
	keyWorkers          = "intake.workers"
	keyFFmpegPath       = "intake.ffmpeg_path"
	keyFFprobePath      = "intake.ffprobe_path"
	keyTempDir          = "intake.temp_dir"
	keyTranscribeURL    = "transcription.base_url"
	keyTranscribeVendor = "transcription.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyCaselawBaseURL   = "caselaw.base_url"
	keyCaselawPerIssue  = "caselaw.results_per_issue"
	keyCaselawRateLimit = "caselaw.requests_per_second"
	keyChunkSize        = "pipeline.chunk_size"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindFloat
)

var settingKinds = map[string]settingKind{
	keyPollInterval:     kindInt,
	keyMaxPollAttempts:  kindInt,
	keyOCRDPI:           kindInt,
	keyOCRPageSegMode:   kindInt,
	keyCompressAudio:    kindBool,
	keyWorkers:          kindInt,
	keyFFmpegPath:       kindString,
	keyFFprobePath:      kindString,
	keyTempDir:          kindString,
	keyTranscribeURL:    kindString,
	keyTranscribeVendor: kindString,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyCaselawBaseURL:   kindString,
	keyCaselawPerIssue:  kindInt,
	keyCaselawRateLimit: kindFloat,
	keyChunkSize:        kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Intake: domain.IntakeSettings{
			PollInterval:    time.Duration(s.getInt(keyPollInterval, int(defaults.Intake.PollInterval/time.Second))) * time.Second,
			MaxPollAttempts: s.getInt(keyMaxPollAttempts, defaults.Intake.MaxPollAttempts),
			OCRDPI:          s.getInt(keyOCRDPI, defaults.Intake.OCRDPI),
			OCRPageSegMode:  s.getInt(keyOCRPageSegMode, defaults.Intake.OCRPageSegMode),
			CompressAudio:   s.getBool(keyCompressAudio, defaults.Intake.CompressAudio),
			Workers:         s.getInt(keyWorkers, defaults.Intake.Workers),
			FFmpegPath:      s.getString(keyFFmpegPath, defaults.Intake.FFmpegPath),
			FFprobePath:     s.getString(keyFFprobePath, defaults.Intake.FFprobePath),
			TempDir:         s.configStore.GetString(keyTempDir),
		},
		Transcription: domain.TranscriptionSettings{
			Provider: s.getString(keyTranscribeVendor, defaults.Transcription.Provider),
			BaseURL:  s.getString(keyTranscribeURL, defaults.Transcription.BaseURL),
		},
		LLM: domain.LLMSettings{
			Model:   s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL: s.getString(keyLLMBaseURL, defaults.LLM.BaseURL),
		},
		Caselaw: domain.CaselawSettings{
			BaseURL:           s.getString(keyCaselawBaseURL, defaults.Caselaw.BaseURL),
			ResultsPerIssue:   s.getInt(keyCaselawPerIssue, defaults.Caselaw.ResultsPerIssue),
			RequestsPerSecond: s.getFloat(keyCaselawRateLimit, defaults.Caselaw.RequestsPerSecond),
		},
		Pipeline: defaults.Pipeline,
	}

	if size, ok := s.configStore.Get(keyChunkSize); ok {
		if n, ok := toInt(size); ok && n > 0 {
			settings.Pipeline.ProcessorConfigs["chunker"]["chunk_size"] = n
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Intake.Validate(); err != nil {
		return err
	}
	if err := settings.Transcription.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyPollInterval:     int(settings.Intake.PollInterval / time.Second),
		keyMaxPollAttempts:  settings.Intake.MaxPollAttempts,
		keyOCRDPI:           settings.Intake.OCRDPI,
		keyOCRPageSegMode:   settings.Intake.OCRPageSegMode,
		keyCompressAudio:    settings.Intake.CompressAudio,
		keyWorkers:          settings.Intake.Workers,
		keyFFmpegPath:       settings.Intake.FFmpegPath,
		keyFFprobePath:      settings.Intake.FFprobePath,
		keyTempDir:          settings.Intake.TempDir,
		keyTranscribeURL:    settings.Transcription.BaseURL,
		keyTranscribeVendor: settings.Transcription.Provider,
		keyLLMModel:         settings.LLM.Model,
		keyLLMBaseURL:       settings.LLM.BaseURL,
		keyCaselawBaseURL:   settings.Caselaw.BaseURL,
		keyCaselawPerIssue:  settings.Caselaw.ResultsPerIssue,
		keyCaselawRateLimit: settings.Caselaw.RequestsPerSecond,
	}
	for _, key := range sortedKeys(values) {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set parses value according to the key's type and stores it.
// The resulting settings must still validate.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = b
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s: %q is not a positive number: %w", key, value, domain.ErrInvalidInput)
		}
		parsed = f
	default:
		parsed = value
	}

	if err := s.validateCandidate(key, parsed); err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Unset removes a stored override so the default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// validateCandidate checks the settings that would result from storing
// value under key.
func (s *SettingsService) validateCandidate(key string, value any) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	in := &settings.Intake
	switch key {
	case keyPollInterval:
		in.PollInterval = time.Duration(value.(int)) * time.Second
	case keyMaxPollAttempts:
		in.MaxPollAttempts = value.(int)
	case keyOCRDPI:
		in.OCRDPI = value.(int)
	case keyOCRPageSegMode:
		in.OCRPageSegMode = value.(int)
	case keyWorkers:
		in.Workers = value.(int)
	case keyCaselawPerIssue, keyChunkSize:
		if value.(int) <= 0 {
			return fmt.Errorf("%s must be positive: %w", key, domain.ErrInvalidInput)
		}
	case keyTranscribeVendor:
		return domain.TranscriptionSettings{Provider: value.(string)}.Validate()
	}
	return in.Validate()
}

// Keys lists the settable keys in name order.
func (s *SettingsService) Keys() []string {
	return sortedKeys(settingKinds)
}

// UnknownKeys lists stored keys outside the settable set.
func (s *SettingsService) UnknownKeys() []string {
	var unknown []string
	for _, key := range s.configStore.Keys() {
		if _, ok := settingKinds[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if v, ok := s.configStore.Get(key); ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return def
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if v, ok := s.configStore.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	if v, ok := s.configStore.Get(key); ok {
		switch f := v.(type) {
		case float64:
			return f
		case int64:
			return float64(f)
		case int:
			return float64(f)
		}
	}
	return def
}

// toInt accepts both int (memory store) and int64 (decoded TOML).
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
