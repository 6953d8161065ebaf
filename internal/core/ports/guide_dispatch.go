package ports

import (
	"context"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// GuideSender delivers one assembled context plus the new user message to the
// assistant and returns its reply.
type GuideSender interface {
	Send(ctx context.Context, cc domain.ChatContext, message string) (domain.AssistantReply, error)
}

// GuideRequest is a single queued assistant call for one conversation.
type GuideRequest struct {
	// Ctx is cancelled when the owning session ends.
	Ctx       context.Context
	SessionID string
	Context   domain.ChatContext
	Message   string
	// Deliver is invoked exactly once with the outcome of the call.
	Deliver func(reply domain.AssistantReply, err error)
}

// GuideDispatcher runs guide requests asynchronously, preserving issue order
// per session.
type GuideDispatcher interface {
	Enqueue(req GuideRequest) error
}
