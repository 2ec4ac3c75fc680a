package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/adapters/driven/storage/memory"
	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/services"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func runSettings(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"settings"}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"show", "set", "unset", "keys", "check"} {
		assert.Contains(t, names, want)
	}
}

func TestSettingsShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runSettings(t, "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Intake]")
	assert.Contains(t, out, "OCR DPI: 300")
	assert.Contains(t, out, "Provider: assemblyai")
	assert.Contains(t, out, "Poll interval: 3s")
	assert.Contains(t, out, "Model: gpt-4o")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Processors: sanitizer, chunker")
	assert.Contains(t, out, "Chunk size: 4000")
}

func TestSettingsShowCmd_IgnoredKeys(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("intake.ocr_dip", 400))
	settingsService = services.NewSettingsService(store)

	out, err := runSettings(t, "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Ignored keys in config: intake.ocr_dip")
	assert.Contains(t, out, "OCR DPI: 300")
}

func TestSettingsSetAndUnset(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runSettings(t, "set", "intake.ocr_dpi", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "intake.ocr_dpi set to 400")

	out, err = runSettings(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "OCR DPI: 400")

	out, err = runSettings(t, "unset", "intake.ocr_dpi")
	require.NoError(t, err)
	assert.Contains(t, out, "intake.ocr_dpi restored to default")

	out, err = runSettings(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "OCR DPI: 300")

	_, err = runSettings(t, "set", "transcription.provider", "whisper")
	require.NoError(t, err)
	out, err = runSettings(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider: whisper")
}

func TestSettingsSetCmd_InvalidKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := runSettings(t, "set", "llm.api_key", "sk-x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "exonascope settings keys")
}

func TestSettingsKeysCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runSettings(t, "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "intake.compress_audio\n")
	assert.Contains(t, out, "caselaw.results_per_issue\n")
}

func TestSettingsCheckCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := runSettings(t, "check")

	require.NoError(t, err)
	assert.Contains(t, out, "ffmpeg")
	assert.Contains(t, out, "gpt-4o")
}

func TestSettingsCheckCmd_MissingTool(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	diagnosticsService = &MockDiagnosticsService{checks: []domain.Check{
		{Name: "tesseract", Required: true, Detail: "tesseract: external tool not found"},
		{Name: "llm", Detail: "OPENAI_API_KEY not set"},
	}}

	out, err := runSettings(t, "check")

	assert.EqualError(t, err, "required tools are missing")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "--")
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, err := runSettings(t, "show")

	assert.EqualError(t, err, "settings service not configured")
}
