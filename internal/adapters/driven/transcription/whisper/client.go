// Package whisper provides a speech-to-text adapter for the OpenAI audio
// transcription endpoint. Unlike AssemblyAI there is no job to poll: the
// text comes back in the upload response.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Transcriber = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 10 * time.Minute
)

// Config holds configuration for the Whisper client.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the transcription model (default: whisper-1).
	Model string

	// Timeout bounds the whole request, upload included.
	Timeout time.Duration
}

// Client posts audio files to /audio/transcriptions.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a Whisper client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("whisper: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Transcribe uploads the file and returns its transcript.
// Failures before the service answers are TranscriptionUploadFailed;
// an answer without a transcript is TranscriptionFailed.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := c.form(audioPath)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionUploadFailed, Detail: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionUploadFailed, Detail: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		err = fmt.Errorf("send request: %w", err)
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionUploadFailed, Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read response: %w", err)
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionUploadFailed, Detail: err.Error(), Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &domain.TranscriptionError{
			Kind:   domain.TranscriptionUploadFailed,
			Detail: "whisper: rate limited",
			Err:    domain.ErrRateLimited,
		}
	}

	var out transcriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &domain.TranscriptionError{
			Kind:   domain.TranscriptionFailed,
			Detail: fmt.Sprintf("decode response (status %d): %v", resp.StatusCode, err),
			Err:    err,
		}
	}
	if out.Error != nil {
		return "", &domain.TranscriptionError{Kind: domain.TranscriptionFailed, Detail: out.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &domain.TranscriptionError{
			Kind:   domain.TranscriptionFailed,
			Detail: fmt.Sprintf("status %d: %s", resp.StatusCode, string(raw)),
		}
	}
	return out.Text, nil
}

// form builds the multipart body: the model name and the audio file.
func (c *Client) form(audioPath string) (io.Reader, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("model", c.model); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
