package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillpath/internal/config"

	"google.golang.org/genai"
)

var (
	// ErrCompletion marks a failed model call (transport, quota, timeout).
	ErrCompletion = errors.New("completion failed")
	// ErrMalformedResponse marks model output that is not valid JSON for the
	// requested shape. Retrying the same prompt is not expected to help.
	ErrMalformedResponse = errors.New("malformed model response")
)

// Completer issues one prompt to a generative model and returns the raw text.
// The model is treated as an untrusted producer: callers go through
// completeJSON, which strips markdown fencing and validates the payload.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("%w: nil client", ErrCompletion)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		MaxOutputTokens:  req.MaxOutputTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrCompletion)
	}
	return text, nil
}

// completeJSON runs the prompt, strips any markdown code fencing and
// unmarshals the remainder into out. Failures come back tagged so callers can
// distinguish a dead model from a babbling one.
func completeJSON(ctx context.Context, c Completer, req Request, out any) error {
	raw, err := c.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, ErrCompletion) || errors.Is(err, ErrMalformedResponse) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// stripFences removes a leading ``` or ```json line and a trailing ``` line.
func stripFences(s string) string {
	clean := strings.TrimSpace(s)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}
