package judge

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultOpenAIBase  = "https://api.openai.com/v1"
	DefaultOpenAIModel = "gpt-4o-mini"
	temperature        = 0.3
)

// OpenAI calls the Chat Completions endpoint in JSON mode.
type OpenAI struct {
	http  *httpClient
	base  string
	model string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAI(base, key, model string, rps int) (*OpenAI, error) {
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if base == "" {
		base = DefaultOpenAIBase
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		http:  newHTTPClient("openai", rps, 60*time.Second, map[string]string{"Authorization": "Bearer " + key}),
		base:  strings.TrimRight(base, "/"),
		model: model,
	}, nil
}

func (c *OpenAI) Name() string { return "openai" }

func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	var resp chatResponse
	if err := c.http.postJSON(ctx, c.base+"/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
