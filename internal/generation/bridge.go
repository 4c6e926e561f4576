// Package generation forwards prompts to a local text generation service
// and waits for the complete answer.
package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// ErrGeneration reports an unreachable service, a malformed or absent
// response, or a failure reported by the service itself.
var ErrGeneration = errors.New("generation error")

// DefaultHost is the address a local Ollama service listens on.
const DefaultHost = "http://localhost:11434"

// Bridge sends single, non-streaming generate requests.
// It enforces no timeout; cancel ctx to abandon a call.
type Bridge struct {
	client *api.Client
}

// New creates a Bridge for the service at host. A nil httpClient uses
// http.DefaultClient.
func New(host string, httpClient *http.Client) (*Bridge, error) {
	if host == "" {
		host = DefaultHost
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid generation host: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid generation host %q: scheme must be http or https", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Bridge{client: api.NewClient(base, httpClient)}, nil
}

// Generate asks model to answer prompt and returns the full text.
// No partial text is returned on failure.
func (b *Bridge) Generate(ctx context.Context, prompt, model string) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", fmt.Errorf("%w: model identifier is empty", ErrGeneration)
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}

	var (
		text strings.Builder
		done bool
	)
	err := b.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		text.WriteString(resp.Response)
		done = resp.Done
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", ErrGeneration, err)
	}
	if !done {
		return "", fmt.Errorf("%w: service returned no complete response", ErrGeneration)
	}

	return text.String(), nil
}
