package service

import (
	"time"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

// RuleSet is the table the rules engine maps profiles through.
type RuleSet struct {
	// FocusByRole overrides DefaultFocus for specific roles.
	FocusByRole  map[domain.Role]string
	DefaultFocus string
	Path         string
	Timeline     string
	EarningStart string
	LockDuration time.Duration
}

// DefaultRules is the production rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		FocusByRole: map[domain.Role]string{
			domain.RoleFounder: "Build Micro-SaaS",
		},
		DefaultFocus: "UI/UX Specialization",
		Path:         "Market Mastery Pathway",
		Timeline:     "12 Weeks",
		EarningStart: "Month 3",
		LockDuration: domain.LockWindow,
	}
}

// DecisionRulesEngine turns a completed profile into a Decision.
type DecisionRulesEngine struct {
	rules RuleSet
}

// NewDecisionRulesEngine returns an engine over rules. Empty fields fall back
// to DefaultRules.
func NewDecisionRulesEngine(rules RuleSet) *DecisionRulesEngine {
	def := DefaultRules()
	if rules.FocusByRole == nil {
		rules.FocusByRole = def.FocusByRole
	}
	if rules.DefaultFocus == "" {
		rules.DefaultFocus = def.DefaultFocus
	}
	if rules.Path == "" {
		rules.Path = def.Path
	}
	if rules.Timeline == "" {
		rules.Timeline = def.Timeline
	}
	if rules.EarningStart == "" {
		rules.EarningStart = def.EarningStart
	}
	if rules.LockDuration <= 0 {
		rules.LockDuration = def.LockDuration
	}
	return &DecisionRulesEngine{rules: rules}
}

// Derive maps p to a decision locked at now. It is total and deterministic.
func (e *DecisionRulesEngine) Derive(p domain.Profile, now time.Time) domain.Decision {
	focus, ok := e.rules.FocusByRole[p.Role]
	if !ok {
		focus = e.rules.DefaultFocus
	}
	return domain.Decision{
		Focus:        focus,
		Path:         e.rules.Path,
		Timeline:     e.rules.Timeline,
		EarningStart: e.rules.EarningStart,
		LockedAt:     now,
		LockDuration: e.rules.LockDuration,
	}
}
