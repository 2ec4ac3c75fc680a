// Package assemblyai provides a speech-to-text adapter for the AssemblyAI
// v2 REST API.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.SpeechToText = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.assemblyai.com"
	DefaultTimeout = 5 * time.Minute
)

// Config holds configuration for the AssemblyAI client.
type Config struct {
	// APIKey is sent in the authorization header (required).
	APIKey string

	// BaseURL is the API root (default: https://api.assemblyai.com).
	BaseURL string

	// Timeout bounds each HTTP request, uploads included.
	Timeout time.Duration
}

// Client speaks the upload / transcript endpoints.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// NewClient creates an AssemblyAI client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("assemblyai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// Upload streams the audio file and returns the hosted upload URL.
func (c *Client) Upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", f)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("assemblyai: upload returned no upload_url")
	}
	return resp.UploadURL, nil
}

// Start requests a transcript for audioURL and returns the job ID.
func (c *Client) Start(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptRequest{AudioURL: audioURL})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp transcriptResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("assemblyai: transcript request returned no id")
	}
	return resp.ID, nil
}

// Poll fetches the job's current state.
func (c *Client) Poll(ctx context.Context, jobID string) (domain.JobState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, http.NoBody)
	if err != nil {
		return domain.JobState{}, fmt.Errorf("create request: %w", err)
	}

	var resp transcriptResponse
	if err := c.do(req, &resp); err != nil {
		return domain.JobState{}, err
	}
	return domain.JobState{
		ID:     resp.ID,
		Status: domain.JobStatus(resp.Status),
		Text:   resp.Text,
		Error:  resp.Error,
	}, nil
}

// do sends an authorised request and decodes a JSON response into out.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("assemblyai: %w", domain.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("assemblyai error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("assemblyai error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
