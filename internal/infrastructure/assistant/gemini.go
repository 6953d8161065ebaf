// Package assistant adapts external conversational models to ports.Assistant.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

const (
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 30 * time.Second
)

// ErrNotConfigured is returned by Unconfigured for every request.
var ErrNotConfigured = errors.New("assistant API key not configured")

// Sampling parameters used for every guide reply.
var (
	temperature float32 = 0.7
	topP        float32 = 0.95
	topK        float32 = 40
)

// contentGenerator is the slice of *genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Gemini sends guide requests to Google's Gemini API.
type Gemini struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini client.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, cfg), nil
}

func newGemini(models contentGenerator, cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{models: models, model: cfg.Model, timeout: cfg.Timeout}
}

// Generate implements ports.Assistant. The system policy travels as the
// system instruction; history keeps its order with assistant turns mapped to
// the "model" role.
func (g *Gemini) Generate(ctx context.Context, req ports.AssistantRequest) (domain.AssistantReply, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, contents(req), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPolicy, genai.RoleUser),
		Temperature:       &temperature,
		TopP:              &topP,
		TopK:              &topK,
	})
	if err != nil {
		return domain.AssistantReply{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return domain.AssistantReply{}, errors.New("gemini generate: empty response")
	}
	return domain.AssistantReply{Text: text}, nil
}

// Name returns the adapter name.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

func contents(req ports.AssistantRequest) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.MessageRoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Text, role))
	}
	return append(out, genai.NewContentFromText(req.NewMessage, genai.RoleUser))
}

// Unconfigured stands in when no API key is set; every request fails so the
// guide degrades to its fallback reply.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, ports.AssistantRequest) (domain.AssistantReply, error) {
	return domain.AssistantReply{}, ErrNotConfigured
}

// Name returns the adapter name.
func (Unconfigured) Name() string { return "unconfigured" }
