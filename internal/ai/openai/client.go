package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/aicmd/internal/ai"
	"github.com/rs/zerolog"
)

const (
	providerName = "openrouter"

	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "meta-llama/llama-3.3-70b-instruct:free"
)

// Options holds the optional client settings.
type Options struct {
	// Referer and Title are sent as HTTP-Referer and X-Title, which
	// OpenRouter uses for attribution.
	Referer string
	Title   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client implements ai.Translator against any OpenAI-compatible chat
// completions endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	referer string
	title   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a new chat completions client
func NewClient(apiKey, model, baseURL string, opts Options) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		referer: opts.Referer,
		title:   opts.Title,
		http:    &http.Client{Timeout: opts.Timeout},
		logger:  opts.Logger.With().Str("provider", providerName).Logger(),
	}
}

// Translate asks the model for commands and extracts them from the reply.
func (c *Client) Translate(ctx context.Context, query string, currentDirectory string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ai.NewError(providerName, ai.ErrInvalidInput, errors.New("empty query"))
	}

	response, err := c.Chat(ctx, []ai.Message{
		{Role: "system", Content: ai.SystemPrompt(currentDirectory, runtime.GOOS)},
		{Role: "user", Content: query},
	})
	if err != nil {
		return nil, err
	}

	commands := ai.ExtractCommands(response)
	if len(commands) == 0 {
		return nil, ai.NewError(providerName, ai.ErrEmpty, errors.New("no commands in response"))
	}

	c.logger.Debug().Int("commands", len(commands)).Msg("translated query")
	return commands, nil
}

// Chat sends messages and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	if c.apiKey == "" {
		return "", ai.NewError(providerName, ai.ErrConfig, errors.New("API key not configured"))
	}

	reqBody := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrInvalidInput, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrConfig, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", ai.NewError(providerName, ai.ErrTransport, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("chat completions error")
		apiErr := ai.NewError(providerName, ai.ErrStatus, fmt.Errorf("%s", apiErrorMessage(body)))
		apiErr.StatusCode = resp.StatusCode
		return "", apiErr
	}

	var respData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", ai.NewError(providerName, ai.ErrDecode, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(respData.Choices) == 0 {
		return "", ai.NewError(providerName, ai.ErrEmpty, errors.New("no choices in response"))
	}

	return strings.TrimSpace(respData.Choices[0].Message.Content), nil
}

// apiErrorMessage prefers the structured error message over the raw body.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
