package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

func guideFixture() (domain.Profile, domain.Decision, []domain.Message) {
	p := domain.Profile{Role: domain.RoleStudent, Age: 20, FinancePressure: 4, Interests: []string{"design"}, MoodScore: 3}
	d := NewDecisionRulesEngine(DefaultRules()).Derive(p, t0)
	h := []domain.Message{
		{Role: domain.MessageRoleUser, Text: "hi", At: t0},
		{Role: domain.MessageRoleAssistant, Text: "hello", At: t0},
	}
	return p, d, h
}

func TestGuideContextAssembler_DecisionIncludedVerbatim(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, d, h := guideFixture()

	cc := a.BuildContext(p, &d, true, false, h)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, cc.SystemPolicy, string(raw))
	assert.Contains(t, cc.SystemPolicy, "NEVER change")
	assert.Contains(t, cc.SystemPolicy, executionRule)
	assert.False(t, strings.HasPrefix(cc.SystemPolicy, "SAFETY DIRECTIVE"))
	require.NotNil(t, cc.Decision)
	assert.Equal(t, d, *cc.Decision)
}

func TestGuideContextAssembler_SafetyDirectiveFirstUnderLock(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, d, h := guideFixture()
	p.MoodScore = 1

	cc := a.BuildContext(p, &d, true, true, h)

	assert.True(t, strings.HasPrefix(cc.SystemPolicy, safetyDirective))
	assert.NotContains(t, cc.SystemPolicy, executionRule)
	assert.True(t, cc.EmotionalLock)
}

func TestGuideContextAssembler_UnlockedDecisionPolicy(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, d, h := guideFixture()

	cc := a.BuildContext(p, &d, false, false, h)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, cc.SystemPolicy, string(raw))
	assert.Contains(t, cc.SystemPolicy, openRule)
	assert.NotContains(t, cc.SystemPolicy, lockedRule)
	assert.NotContains(t, cc.SystemPolicy, "Locked until")
	assert.False(t, cc.DecisionLocked)
}

func TestGuideContextAssembler_NoDecision(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, _, _ := guideFixture()

	cc := a.BuildContext(p, nil, false, false, nil)

	assert.Nil(t, cc.Decision)
	assert.Contains(t, cc.SystemPolicy, "none committed yet")
}

func TestGuideContextAssembler_BuildIsDeterministic(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, d, h := guideFixture()

	first := a.BuildContext(p, &d, true, true, h)
	second := a.BuildContext(p, &d, true, true, h)
	assert.Equal(t, first, second)
}

func TestGuideContextAssembler_CopiesInputs(t *testing.T) {
	a := NewGuideContextAssembler(nil, zerolog.Nop())
	p, d, h := guideFixture()

	cc := a.BuildContext(p, &d, true, false, h)
	h[0].Text = "rewritten"
	p.Interests[0] = "rewritten"
	d.Focus = "rewritten"

	assert.Equal(t, "hi", cc.History[0].Text)
	assert.Equal(t, "design", cc.Profile.Interests[0])
	assert.Equal(t, "UI/UX Specialization", cc.Decision.Focus)
}

func TestGuideContextAssembler_SendForwardsRequest(t *testing.T) {
	stub := &stubAssistant{reply: "Chalo, let's start small."}
	a := NewGuideContextAssembler(stub, zerolog.Nop())
	p, d, h := guideFixture()
	cc := a.BuildContext(p, &d, true, false, h)

	reply, err := a.Send(context.Background(), cc, "samajh nahi aaya")
	require.NoError(t, err)
	assert.Equal(t, "Chalo, let's start small.", reply.Text)

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, cc.SystemPolicy, reqs[0].SystemPolicy)
	assert.Equal(t, h, reqs[0].History, "history keeps chronological order")
	assert.Equal(t, "samajh nahi aaya", reqs[0].NewMessage)
}

func TestGuideContextAssembler_SendFailures(t *testing.T) {
	p, d, _ := guideFixture()

	cases := map[string]*GuideContextAssembler{
		"transport error": NewGuideContextAssembler(&stubAssistant{err: errors.New("dial tcp: timeout")}, zerolog.Nop()),
		"empty reply":     NewGuideContextAssembler(&stubAssistant{reply: "   "}, zerolog.Nop()),
		"no assistant":    NewGuideContextAssembler(nil, zerolog.Nop()),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			cc := a.BuildContext(p, &d, true, false, nil)
			_, err := a.Send(context.Background(), cc, "hello")
			assert.ErrorIs(t, err, domain.ErrAssistantUnavailable)
		})
	}
}
