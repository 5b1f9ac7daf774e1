// Package llm is the language-model collaborator. The rest of the system
// only ever sees the Gateway interface: prompt text in, response text out.
// No structural guarantee is made about the output; callers must parse
// defensively.
package llm

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/harrisonrobin/donna/pkg/provider"
)

// Gateway turns a prompt into free-form model text.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaGateway implements Gateway against a local or remote Ollama server.
type OllamaGateway struct {
	client *api.Client
	model  string
	logger *slog.Logger
}

// DefaultHost is used when no host is configured.
const DefaultHost = "http://localhost:11434"

// NewOllamaGateway creates a gateway for the given model. An empty host
// falls back to DefaultHost.
func NewOllamaGateway(host, model string, logger *slog.Logger) (*OllamaGateway, error) {
	if host == "" {
		host = DefaultHost
	}
	base, err := url.Parse(strings.TrimRight(host, "/"))
	if err != nil {
		return nil, provider.Errorf("llm", "configure", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaGateway{
		client: api.NewClient(base, http.DefaultClient),
		model:  model,
		logger: logger.With("component", "ollama-gateway"),
	}, nil
}

// Model returns the configured model name.
func (g *OllamaGateway) Model() string { return g.model }

// Generate runs a non-streaming completion and returns the full response
// text. Failures wrap into a provider.Error.
func (g *OllamaGateway) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		g.logger.Error("generate failed", "model", g.model, "error", err)
		return "", provider.Errorf("llm", "generate", err)
	}
	return sb.String(), nil
}
