package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// FallbackReply is shown to the user when the assistant cannot be reached.
const FallbackReply = "Something went wrong. Let's try again in a bit."

const safetyDirective = `SAFETY DIRECTIVE (emotional lock active):
The user reported a low mood. Put their mental well-being before any execution or task push.
Suggest rest, a short break or a small health task. Do not introduce, suggest or discuss new
major decisions, and do not offer to change their path. Keep the tone gentle and brief.`

const guidePersona = `You are 'Mera Guide', an AI mentor for Growth AI.
Your personality: empathetic, brutally honest when needed, concise, and focused on execution.`

const lockedRule = `1. NEVER change, reopen or contradict the Final Decision above. It is locked by the system and is not a proposal.`

const openRule = `1. Do not change or contradict the Final Decision above yourself. Its lock window is closed; a new decision is made only through the app's redecide flow, never in chat.`

const guideRules = `2. If the user is confused, explain the reasoning behind the current decision.
3. If the user says "samajh nahi aaya", break it down into simpler steps or examples.
4. Language: use Hinglish (Hindi + English mix); the user is Gen Z from India.`

const executionRule = `5. Always encourage consistent execution of daily tasks.`

// GuideContextAssembler builds the bounded context handed to the assistant
// and forwards requests to it.
type GuideContextAssembler struct {
	assistant ports.Assistant
	log       zerolog.Logger
}

// NewGuideContextAssembler returns an assembler that sends through assistant.
func NewGuideContextAssembler(assistant ports.Assistant, log zerolog.Logger) *GuideContextAssembler {
	return &GuideContextAssembler{assistant: assistant, log: log}
}

// BuildContext snapshots the guardrail state into a ChatContext. It has no
// side effects and copies every input it keeps.
func (a *GuideContextAssembler) BuildContext(
	profile domain.Profile,
	decision *domain.Decision,
	decisionLocked bool,
	emotionalLock bool,
	history []domain.Message,
) domain.ChatContext {
	cc := domain.ChatContext{
		Profile:       profile.Clone(),
		EmotionalLock: emotionalLock,
		History:       append([]domain.Message(nil), history...),
	}
	if decision != nil {
		cc.DecisionLocked = decisionLocked
		d := *decision
		cc.Decision = &d
	}
	cc.SystemPolicy = systemPolicy(cc)
	return cc
}

// Send delivers cc and message to the assistant. Any failure is reported as
// domain.ErrAssistantUnavailable; nothing is retried.
func (a *GuideContextAssembler) Send(ctx context.Context, cc domain.ChatContext, message string) (domain.AssistantReply, error) {
	if a.assistant == nil {
		return domain.AssistantReply{}, fmt.Errorf("%w: no assistant configured", domain.ErrAssistantUnavailable)
	}

	reply, err := a.assistant.Generate(ctx, ports.AssistantRequest{
		SystemPolicy: cc.SystemPolicy,
		History:      cc.History,
		NewMessage:   message,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("assistant request failed")
		return domain.AssistantReply{}, fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}
	if strings.TrimSpace(reply.Text) == "" {
		return domain.AssistantReply{}, fmt.Errorf("%w: empty reply", domain.ErrAssistantUnavailable)
	}
	return reply, nil
}

func systemPolicy(cc domain.ChatContext) string {
	var b strings.Builder
	if cc.EmotionalLock {
		b.WriteString(safetyDirective)
		b.WriteString("\n\n")
	}
	b.WriteString(guidePersona)
	b.WriteString("\n\n")

	switch {
	case cc.Decision != nil && cc.DecisionLocked:
		b.WriteString("Final Decision (locked, fixed context):\n")
		b.WriteString(mustJSON(cc.Decision))
		fmt.Fprintf(&b, "\nLocked until: %s\n\n", cc.Decision.LockedUntil().UTC().Format(time.RFC3339))
	case cc.Decision != nil:
		b.WriteString("Final Decision (current path, lock window elapsed):\n")
		b.WriteString(mustJSON(cc.Decision))
		b.WriteString("\nLock status: window elapsed or released.\n\n")
	default:
		b.WriteString("Final Decision: none committed yet. Do not invent or propose one.\n\n")
	}

	b.WriteString("User profile:\n")
	b.WriteString(mustJSON(cc.Profile))
	b.WriteString("\n\n")

	b.WriteString("Rules:\n")
	if cc.Decision == nil || cc.DecisionLocked {
		b.WriteString(lockedRule)
	} else {
		b.WriteString(openRule)
	}
	b.WriteString("\n")
	b.WriteString(guideRules)
	if !cc.EmotionalLock {
		b.WriteString("\n")
		b.WriteString(executionRule)
	}
	return b.String()
}

// mustJSON encodes plain data structs that cannot fail to marshal.
func mustJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(out)
}
