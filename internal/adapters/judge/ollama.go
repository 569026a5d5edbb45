package judge

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const DefaultOllamaModel = "mistral"

// Ollama calls a local /api/generate endpoint with JSON output forced.
type Ollama struct {
	http  *httpClient
	host  string
	model string
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllama(host, model string, rps int) (*Ollama, error) {
	if host == "" {
		return nil, fmt.Errorf("OLLAMA_HOST is required")
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		http:  newHTTPClient("ollama", rps, 90*time.Second, nil),
		host:  strings.TrimRight(host, "/"),
		model: model,
	}, nil
}

func (c *Ollama) Name() string { return "ollama" }

func (c *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	req := ollamaRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": temperature},
	}
	var resp ollamaResponse
	if err := c.http.postJSON(ctx, c.host+"/api/generate", req, &resp); err != nil {
		return "", err
	}
	if out := strings.TrimSpace(resp.Response); out != "" {
		return out, nil
	}
	return "", ErrEmptyCompletion
}
