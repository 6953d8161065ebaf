package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// SendResult is the outcome of one submitted guide message.
type SendResult struct {
	Reply    domain.AssistantReply
	Fallback bool
	// Discarded is true when the session ended before the reply arrived.
	Discarded bool
	History   []domain.Message
	Err       error
}

// ContextBuilder renders the assistant context from the history that precedes
// the new user turn.
type ContextBuilder func(history []domain.Message) domain.ChatContext

// Conversation holds the append-only guide history and enforces one
// outstanding request at a time. Replies arrive on dispatcher goroutines, so
// its state is guarded by its own mutex.
type Conversation struct {
	sessionID  string
	dispatcher ports.GuideDispatcher
	clock      ports.Clock

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	history  []domain.Message
	inFlight bool
	closed   bool
	epoch    uint64
}

// NewConversation opens an empty conversation for sessionID.
func NewConversation(sessionID string, dispatcher ports.GuideDispatcher, clock ports.Clock) *Conversation {
	ctx, cancel := context.WithCancel(context.Background())
	return &Conversation{
		sessionID:  sessionID,
		dispatcher: dispatcher,
		clock:      clock,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// History returns a copy of the conversation so far.
func (c *Conversation) History() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.history...)
}

// Submit records message as the next user turn and queues the assistant call.
// build runs under the conversation lock, so the context it returns always
// carries the complete history before message. The returned channel yields
// exactly one result.
func (c *Conversation) Submit(build ContextBuilder, message string) (<-chan SendResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrConversationClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, domain.ErrSendInFlight
	}
	cc := build(append([]domain.Message(nil), c.history...))
	c.inFlight = true
	epoch := c.epoch
	turn := len(c.history)
	c.history = append(c.history, domain.Message{Role: domain.MessageRoleUser, Text: message, At: c.clock.Now()})
	c.mu.Unlock()

	out := make(chan SendResult, 1)
	err := c.dispatcher.Enqueue(ports.GuideRequest{
		Ctx:       c.ctx,
		SessionID: c.sessionID,
		Context:   cc,
		Message:   message,
		Deliver: func(reply domain.AssistantReply, err error) {
			out <- c.complete(epoch, reply, err)
			close(out)
		},
	})
	if err != nil {
		c.mu.Lock()
		if c.epoch == epoch {
			c.history = c.history[:turn]
			c.inFlight = false
		}
		c.mu.Unlock()
		return nil, fmt.Errorf("submit: %w", err)
	}
	return out, nil
}

// Close ends the conversation. A reply still outstanding is discarded when it
// arrives and its assistant call is cancelled.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.inFlight = false
	c.epoch++
	c.cancel()
}

func (c *Conversation) complete(epoch uint64, reply domain.AssistantReply, err error) SendResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch {
		return SendResult{Discarded: true, Err: domain.ErrConversationClosed}
	}
	c.inFlight = false

	if err != nil {
		res := SendResult{Err: err, History: append([]domain.Message(nil), c.history...)}
		if errors.Is(err, domain.ErrAssistantUnavailable) {
			res.Fallback = true
			res.Reply = domain.AssistantReply{Text: FallbackReply}
		}
		return res
	}

	c.history = append(c.history, domain.Message{Role: domain.MessageRoleAssistant, Text: reply.Text, At: c.clock.Now()})
	return SendResult{Reply: reply, History: append([]domain.Message(nil), c.history...)}
}
