package ports

import (
	"context"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// AssistantRequest is the request shape handed to the external assistant.
type AssistantRequest struct {
	SystemPolicy string
	History      []domain.Message // strict chronological order
	NewMessage   string
}

// Assistant is the external conversational model. Implementations report
// transport failures as errors and never mutate session state.
type Assistant interface {
	Generate(ctx context.Context, req AssistantRequest) (domain.AssistantReply, error)
}
