package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

// Onboarding defaults for answers the user skipped.
const (
	defaultFinancePressure = 3
	defaultMoodScore       = 3
)

// profileRules mirrors domain.Profile with the constraints onboarding enforces.
type profileRules struct {
	Age             int      `validate:"omitempty,min=1,max=120"`
	Role            string   `validate:"required,oneof=student working founder business"`
	FinancePressure int      `validate:"min=1,max=5"`
	Interests       []string `validate:"omitempty,max=20,dive,required,max=64"`
	Confusion       string   `validate:"max=2000"`
	MoodScore       int      `validate:"min=1,max=5"`
}

// ProfileIntake accumulates onboarding answers into a draft profile.
type ProfileIntake struct {
	draft    domain.Profile
	validate *validator.Validate
}

// NewProfileIntake returns an intake pre-filled with the onboarding defaults.
func NewProfileIntake() *ProfileIntake {
	return &ProfileIntake{
		draft: domain.Profile{
			FinancePressure: defaultFinancePressure,
			MoodScore:       defaultMoodScore,
		},
		validate: validator.New(),
	}
}

// Apply overwrites every answered field of the draft. Unanswered (zero)
// fields keep their previous value.
func (in *ProfileIntake) Apply(answers ports.OnboardingInput) {
	if answers.Age != 0 {
		in.draft.Age = answers.Age
	}
	if answers.Role != "" {
		in.draft.Role = domain.Role(strings.ToLower(strings.TrimSpace(answers.Role)))
	}
	if answers.FinancePressure != 0 {
		in.draft.FinancePressure = answers.FinancePressure
	}
	if answers.Interests != nil {
		in.draft.Interests = normalizeInterests(answers.Interests)
	}
	if answers.Confusion != "" {
		in.draft.Confusion = strings.TrimSpace(answers.Confusion)
	}
	if answers.MoodScore != 0 {
		in.draft.MoodScore = answers.MoodScore
	}
}

// SetMood records a mood check-in on the draft.
func (in *ProfileIntake) SetMood(score int) {
	in.draft.MoodScore = score
}

// Draft returns a copy of the answers collected so far.
func (in *ProfileIntake) Draft() domain.Profile {
	return in.draft.Clone()
}

// Complete validates the draft and returns the finished profile.
func (in *ProfileIntake) Complete() (domain.Profile, error) {
	p := in.draft
	err := in.validate.Struct(profileRules{
		Age:             p.Age,
		Role:            string(p.Role),
		FinancePressure: p.FinancePressure,
		Interests:       p.Interests,
		Confusion:       p.Confusion,
		MoodScore:       p.MoodScore,
	})
	if err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrInvalidProfile, strings.Join(msgs, "; "))
		}
		return domain.Profile{}, fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
	}
	return p.Clone(), nil
}

// normalizeInterests trims entries and drops blanks and case-insensitive repeats.
func normalizeInterests(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
