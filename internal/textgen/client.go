// Package textgen talks to an OpenAI-compatible chat-completions endpoint to
// turn an itinerary request into Markdown prose.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"

	temperature = 0.7
	maxTokens   = 2500
)

// ErrEmptyCompletion is returned when the endpoint answers 200 but without
// any usable content.
var ErrEmptyCompletion = errors.New("empty completion")

// Config holds the connection settings for the completions endpoint.
type Config struct {
	APIKey  string
	BaseURL string // defaults to DefaultBaseURL
	Model   string // defaults to DefaultModel
	OrgID   string // optional OpenAI-Organization header
}

// Client generates itineraries. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a Client for cfg. httpClient may be nil, in which case
// http.DefaultClient is used; callers bound each call through ctx.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("textgen.New: api key is blank")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate renders the prompt for req and returns the model's answer.
func (c *Client) Generate(ctx context.Context, req domain.ItineraryRequest) (string, error) {
	prompt, err := RenderPrompt(req)
	if err != nil {
		return "", fmt.Errorf("textgen.Client.Generate: %w", err)
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("textgen.Client.Generate: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("textgen.Client.Generate: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.OrgID != "" {
		httpReq.Header.Set("OpenAI-Organization", c.cfg.OrgID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("textgen.Client.Generate: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("textgen.Client.Generate: read body: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("textgen.Client.Generate: bad status code: %d", resp.StatusCode)
		}
		return "", fmt.Errorf("textgen.Client.Generate: unmarshal body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("textgen.Client.Generate: bad status code %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("textgen.Client.Generate: bad status code: %d", resp.StatusCode)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("textgen.Client.Generate: no choices: %w", ErrEmptyCompletion)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("textgen.Client.Generate: no content: %w", ErrEmptyCompletion)
	}
	return content, nil
}
