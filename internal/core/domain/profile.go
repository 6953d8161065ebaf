package domain

import "errors"

// Role is the self-described life stage picked during onboarding.
type Role string

const (
	RoleStudent  Role = "student"
	RoleWorking  Role = "working"
	RoleFounder  Role = "founder"
	RoleBusiness Role = "business"
)

// Scale bounds shared by finance pressure and mood check-ins.
const (
	ScaleMin = 1
	ScaleMax = 5
)

var ErrInvalidProfile = errors.New("invalid profile")
var ErrOnboardingIncomplete = errors.New("onboarding not complete")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleWorking, RoleFounder, RoleBusiness:
		return true
	}
	return false
}

// Profile holds the onboarding answers plus the latest mood check-in.
// Zero values mean "not supplied yet".
type Profile struct {
	Age             int      `json:"age,omitempty"`
	Role            Role     `json:"role,omitempty"`
	FinancePressure int      `json:"finance_pressure,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	Confusion       string   `json:"confusion,omitempty"`
	MoodScore       int      `json:"mood_score,omitempty"`
}

// Clone returns a deep copy so callers never share the interests slice.
func (p Profile) Clone() Profile {
	out := p
	if p.Interests != nil {
		out.Interests = append([]string(nil), p.Interests...)
	}
	return out
}
