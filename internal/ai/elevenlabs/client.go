// Package elevenlabs implements ai.Transcriber against the ElevenLabs
// speech-to-text API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/rs/zerolog"
)

const (
	providerName = "elevenlabs"

	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "scribe_v1"
)

// Options holds the optional client settings.
type Options struct {
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client turns recorded WAV audio into text.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a speech-to-text client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(apiKey, baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   opts.Model,
		http:    &http.Client{Timeout: opts.Timeout},
		logger:  opts.Logger.With().Str("provider", providerName).Logger(),
	}
}

// Transcribe uploads audio as audio.wav and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	startTime := time.Now()

	if len(audio) == 0 {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, errors.New("no audio data provided"))
	}
	if c.apiKey == "" {
		return "", ai.NewError(providerName, ai.ErrConfig, errors.New("API key not configured"))
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, fmt.Errorf("failed to create form file: %w", err))
	}
	if _, err := part.Write(audio); err != nil {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, fmt.Errorf("failed to write audio data: %w", err))
	}
	if err := writer.WriteField("model_id", c.model); err != nil {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, fmt.Errorf("failed to write model field: %w", err))
	}
	if err := writer.Close(); err != nil {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, fmt.Errorf("failed to close multipart writer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/speech-to-text", &buf)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrConfig, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrTransport, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrTransport, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("speech-to-text error")
		apiErr := ai.NewError(providerName, ai.ErrStatus, fmt.Errorf("%s", strings.TrimSpace(string(body))))
		apiErr.StatusCode = resp.StatusCode
		return "", apiErr
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", ai.NewError(providerName, ai.ErrDecode, fmt.Errorf("failed to parse response: %w", err))
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ai.NewError(providerName, ai.ErrEmpty, errors.New("no speech recognized"))
	}

	c.logger.Info().Str("text", text).Dur("time", time.Since(startTime)).Msg("transcription complete")
	return text, nil
}
