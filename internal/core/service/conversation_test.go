package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// historyContext passes the history through untouched.
func historyContext(history []domain.Message) domain.ChatContext {
	return domain.ChatContext{History: history}
}

func TestConversation_OneRequestInFlight(t *testing.T) {
	d := &manualDispatcher{}
	c := NewConversation("s1", d, newFakeClock(t0))

	results, err := c.Submit(historyContext, "first")
	require.NoError(t, err)

	_, err = c.Submit(historyContext, "second")
	assert.ErrorIs(t, err, domain.ErrSendInFlight)
	assert.Len(t, c.History(), 1)

	d.deliver(0, "reply", nil)
	res := <-results
	require.NoError(t, res.Err)
	assert.Equal(t, "reply", res.Reply.Text)
	require.Len(t, res.History, 2)
	assert.Equal(t, domain.MessageRoleUser, res.History[0].Role)
	assert.Equal(t, domain.MessageRoleAssistant, res.History[1].Role)

	_, err = c.Submit(historyContext, "second")
	assert.NoError(t, err, "next send allowed once the reply resolved")
}

func TestConversation_ReplyAfterCloseIsDiscarded(t *testing.T) {
	d := &manualDispatcher{}
	c := NewConversation("s1", d, newFakeClock(t0))

	results, err := c.Submit(historyContext, "hello")
	require.NoError(t, err)
	ctx := d.pending[0].Ctx

	c.Close()
	assert.Error(t, ctx.Err(), "outstanding call is cancelled")

	d.deliver(0, "late reply", nil)
	res := <-results
	assert.True(t, res.Discarded)
	assert.ErrorIs(t, res.Err, domain.ErrConversationClosed)
	assert.Len(t, c.History(), 1, "late reply never reaches history")

	_, err = c.Submit(historyContext, "again")
	assert.ErrorIs(t, err, domain.ErrConversationClosed)
}

func TestConversation_FallbackOnAssistantFailure(t *testing.T) {
	d := &manualDispatcher{}
	c := NewConversation("s1", d, newFakeClock(t0))

	results, err := c.Submit(historyContext, "hello")
	require.NoError(t, err)

	d.deliver(0, "", domain.ErrAssistantUnavailable)
	res := <-results
	assert.True(t, res.Fallback)
	assert.Equal(t, FallbackReply, res.Reply.Text)
	assert.Len(t, res.History, 1, "no assistant turn is recorded")

	_, err = c.Submit(historyContext, "retry")
	assert.NoError(t, err, "user may retry after a fallback")
}

func TestConversation_EnqueueFailureRollsBack(t *testing.T) {
	d := &manualDispatcher{enqueueErr: errors.New("queue full")}
	c := NewConversation("s1", d, newFakeClock(t0))

	_, err := c.Submit(historyContext, "hello")
	require.Error(t, err)
	assert.Empty(t, c.History())

	d.enqueueErr = nil
	_, err = c.Submit(historyContext, "hello")
	assert.NoError(t, err)
}

func TestConversation_RepliesKeepIssueOrder(t *testing.T) {
	clock := newFakeClock(t0)
	d := &asyncDispatcher{sender: NewGuideContextAssembler(&stubAssistant{reply: "ok"}, zerolog.Nop())}
	c := NewConversation("s1", d, clock)

	for _, msg := range []string{"one", "two", "three"} {
		results, err := c.Submit(historyContext, msg)
		require.NoError(t, err)
		res := <-results
		require.NoError(t, res.Err)
	}

	h := c.History()
	require.Len(t, h, 6)
	for i, want := range []string{"one", "ok", "two", "ok", "three", "ok"} {
		assert.Equal(t, want, h[i].Text)
	}
}

func TestConversation_ContextCarriesResolvedReply(t *testing.T) {
	d := &manualDispatcher{}
	c := NewConversation("s1", d, newFakeClock(t0))

	_, err := c.Submit(historyContext, "u1")
	require.NoError(t, err)
	assert.Empty(t, d.pending[0].Context.History)

	// The reply lands before the next send is built.
	d.deliver(0, "a1", nil)

	_, err = c.Submit(historyContext, "u2")
	require.NoError(t, err)
	got := d.pending[1].Context.History
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].Text)
	assert.Equal(t, domain.MessageRoleAssistant, got[1].Role)
	assert.Equal(t, "a1", got[1].Text)
}

func TestConversation_BuilderNotCalledWhenRejected(t *testing.T) {
	d := &manualDispatcher{}
	c := NewConversation("s1", d, newFakeClock(t0))

	_, err := c.Submit(historyContext, "u1")
	require.NoError(t, err)

	calls := 0
	_, err = c.Submit(func(h []domain.Message) domain.ChatContext {
		calls++
		return historyContext(h)
	}, "u2")
	assert.ErrorIs(t, err, domain.ErrSendInFlight)
	assert.Zero(t, calls)
}
