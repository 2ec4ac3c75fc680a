// Package ai provides factory functions for the external API adapters:
// the LLM, speech-to-text and caselaw search clients.
//
// Speech-to-text has two shapes. AssemblyAI is a job API (SpeechToText)
// that the caller drives through upload, start and poll. Whisper answers
// in one request, so it is returned as a ready Transcriber.
package ai

import (
	"fmt"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/caselaw/courtlistener"
	openaillm "github.com/exonascope/exonascope-cli/internal/adapters/driven/llm/openai"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/transcription/assemblyai"
	"github.com/exonascope/exonascope-cli/internal/adapters/driven/transcription/whisper"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// InitResult contains the result of API client initialisation.
// Unconfigured clients are nil interfaces.
type InitResult struct {
	LLMService   driven.LLMService
	SpeechToText driven.SpeechToText // Job API; set for AssemblyAI.
	Transcriber  driven.Transcriber  // Synchronous; set for Whisper.
	Caselaw      driven.CaselawSearcher
	Warnings     []string // Non-fatal issues that disabled a client.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	if r.LLMService != nil {
		return r.LLMService.Close()
	}
	return nil
}

// Init creates every client the settings allow. A client that cannot be
// created is left nil and reported in Warnings.
func Init(settings *domain.AppSettings) *InitResult {
	result := &InitResult{}
	if settings == nil {
		result.Warnings = append(result.Warnings, "no settings")
		return result
	}

	if llm, err := CreateLLMService(&settings.LLM); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", domain.ErrLLMUnavailable, err))
	} else {
		result.LLMService = llm
	}

	if err := settings.Transcription.Validate(); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", domain.ErrTranscriptionUnavailable, err))
	} else if settings.Transcription.UsesWhisper() {
		if tr, err := CreateWhisperTranscriber(&settings.Transcription, &settings.LLM); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", domain.ErrTranscriptionUnavailable, err))
		} else {
			result.Transcriber = tr
		}
	} else if stt, err := CreateSpeechToText(&settings.Transcription); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", domain.ErrTranscriptionUnavailable, err))
	} else {
		result.SpeechToText = stt
	}

	result.Caselaw = CreateCaselawSearcher(&settings.Caselaw)
	return result
}

// CreateLLMService creates the LLM client.
// Returns nil if no API key is configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// CreateSpeechToText creates the AssemblyAI job client.
// Returns nil if no API key is configured or Whisper is selected.
func CreateSpeechToText(settings *domain.TranscriptionSettings) (driven.SpeechToText, error) {
	if settings == nil || !settings.IsConfigured() || settings.UsesWhisper() {
		return nil, nil
	}
	client, err := assemblyai.NewClient(assemblyai.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CreateWhisperTranscriber creates the Whisper client. It shares the
// OpenAI endpoint with the LLM unless transcription.base_url is set.
// Returns nil if no API key is configured.
func CreateWhisperTranscriber(settings *domain.TranscriptionSettings, llm *domain.LLMSettings) (driven.Transcriber, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	baseURL := settings.BaseURL
	if baseURL == "" && llm != nil {
		baseURL = llm.BaseURL
	}
	client, err := whisper.NewClient(whisper.Config{
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CreateCaselawSearcher creates the caselaw client. A token is optional,
// so a searcher is always returned for non-nil settings.
func CreateCaselawSearcher(settings *domain.CaselawSettings) driven.CaselawSearcher {
	if settings == nil {
		return nil
	}
	return courtlistener.NewClient(courtlistener.Config{
		BaseURL:           settings.BaseURL,
		APIToken:          settings.APIToken,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
}
