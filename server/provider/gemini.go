package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/platewise/platewise/config"
)

// Gemini is the Provider implementation backed by Google's Gemini API.
// The client and model handle are constructed once at startup and shared
// across requests.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *zap.Logger
}

// NewGemini creates a Gemini provider from the backend configuration.
// The generation config asks the model for a JSON reply; that is a hint,
// not a guarantee, so the normalizer still treats the reply as opaque text.
func NewGemini(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(cfg.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(strings.TrimSpace(cfg.Model))
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	return &Gemini{
		client: client,
		model:  model,
		name:   cfg.Model,
		logger: logger,
	}, nil
}

// Analyze implements Provider.
func (g *Gemini) Analyze(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		parts = append(parts, &genai.Blob{MIMEType: mime, Data: image})
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}

	g.logger.Debug("backend reply received",
		zap.Int("reply_length", len(text)),
	)

	return text, nil
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// Model implements Provider.
func (g *Gemini) Model() string { return g.name }

// Close releases the underlying gRPC connection. Called once during server
// shutdown.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// firstText walks the candidates for the first text part of the reply.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
