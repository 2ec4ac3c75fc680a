// Package environment reads secrets and tool overrides from the process
// environment, optionally seeded from a .env file.
package environment

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

// Environment lists every variable the application reads.
// API keys are only ever taken from here, never from config.toml.
type Environment struct {
	AssemblyAIKey      string `env:"ASSEMBLYAI_API_KEY"`
	OpenAIKey          string `env:"OPENAI_API_KEY"`
	CourtListenerToken string `env:"COURTLISTENER_API_TOKEN"`
	FFmpegPath         string `env:"EXONASCOPE_FFMPEG"`
	FFprobePath        string `env:"EXONASCOPE_FFPROBE"`
	OpenAIBaseURL      string `env:"OPENAI_BASE_URL"`
}

// LoadDotEnv loads the given .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Parse reads the Environment from the process environment.
func Parse() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ParseFrom reads the Environment from an explicit variable map.
func ParseFrom(vars map[string]string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply layers the environment over settings. Empty variables leave the
// existing value in place.
func (e Environment) Apply(settings *domain.AppSettings) {
	if settings == nil {
		return
	}
	settings.Transcription.APIKey = e.AssemblyAIKey
	if settings.Transcription.UsesWhisper() {
		settings.Transcription.APIKey = e.OpenAIKey
	}
	settings.LLM.APIKey = e.OpenAIKey
	settings.Caselaw.APIToken = e.CourtListenerToken
	if e.FFmpegPath != "" {
		settings.Intake.FFmpegPath = e.FFmpegPath
	}
	if e.FFprobePath != "" {
		settings.Intake.FFprobePath = e.FFprobePath
	}
	if e.OpenAIBaseURL != "" {
		settings.LLM.BaseURL = e.OpenAIBaseURL
	}
}
