package judge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"flavor_sentiment/internal/adapters/observability"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini uses the Google Generative AI SDK with a JSON response MIME type.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	rl     *rate.Limiter
}

func NewGemini(ctx context.Context, key, model string, rps int) (*Gemini, error) {
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if rps <= 0 {
		rps = 2
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(temperature)
	m.ResponseMIMEType = "application/json"
	return &Gemini{client: client, model: m, rl: rate.NewLimiter(rate.Limit(rps), rps)}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		observability.ObserveJudge("gemini", 0, time.Since(start))
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	observability.ObserveJudge("gemini", 200, time.Since(start))
	return completionText(resp)
}

func (g *Gemini) Close() error { return g.client.Close() }

// completionText joins the text parts of the first candidate that has any.
func completionText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyCompletion
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if out := strings.TrimSpace(b.String()); out != "" {
			return out, nil
		}
	}
	return "", ErrEmptyCompletion
}
