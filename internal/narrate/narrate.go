package narrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrUnavailable marks a failed or unconfigured narration call. Callers are
// expected to fall back to a templated summary rather than failing the query.
var ErrUnavailable = errors.New("narration service unavailable")

// ResponseType selects the system prompt for a narration request.
type ResponseType string

const (
	ResponseDataAnalysis ResponseType = "data_analysis"
	ResponseExplanation  ResponseType = "explanation"
	ResponseGreeting     ResponseType = "greeting"
)

// Request carries everything a narrator needs to produce text. DataContext
// holds a statistics summary, never raw rows, to bound prompt size.
type Request struct {
	Query       string
	Type        ResponseType
	DataContext string
}

// Narrator is the capability interface for the external text-generation
// collaborator. Tests substitute a fake implementation.
type Narrator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	key        string
	model      string
	logger     *zap.Logger
}

// NewClient creates a narration client. An empty key means the service is
// unconfigured; Generate then fails immediately with ErrUnavailable.
func NewClient(httpClient *http.Client, url, key, model string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, url: url, key: key, model: model, logger: logger}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends a chat-completion request and returns the generated text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.key == "" {
		return "", fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Type)},
			{Role: "user", Content: userMessage(req)},
		},
		MaxTokens:   3000,
		Temperature: 0.6,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("narration request rejected", zap.String("status", resp.Status))
		return "", fmt.Errorf("%w: unexpected status %s", ErrUnavailable, resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode payload: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}

func userMessage(req Request) string {
	msg := "User Query: " + req.Query + "\n\n"
	if req.DataContext != "" {
		msg += "Data Context:\n" + req.DataContext + "\n\n"
	}
	switch req.Type {
	case ResponseDataAnalysis:
		msg += "Please analyze this data and describe the oceanographic patterns it shows."
	case ResponseGreeting:
		msg += "This is a greeting. Respond with a short, friendly introduction."
	default:
		msg += "Please provide a clear and helpful explanation."
	}
	return msg
}
