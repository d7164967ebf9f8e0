package domain

import (
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Filters holds optional equality constraints on envelope attributes. A nil field
// imposes no constraint.
type Filters struct {
	AgentID   *string `json:"agent_id,omitempty"`
	AgentName *string `json:"agent_name,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
}

// IsEmpty reports whether no constraint is present.
func (f *Filters) IsEmpty() bool {
	return f == nil || (f.AgentID == nil && f.AgentName == nil && f.UserID == nil && f.CompanyID == nil)
}

// Matches reports whether every present constraint equals the envelope field.
func (f *Filters) Matches(env *eventDomain.Envelope) bool {
	if f.IsEmpty() {
		return true
	}
	if f.AgentID != nil && *f.AgentID != env.AgentID {
		return false
	}
	if f.AgentName != nil && *f.AgentName != env.AgentName {
		return false
	}
	if f.UserID != nil && *f.UserID != env.UserID {
		return false
	}
	if f.CompanyID != nil && *f.CompanyID != env.CompanyID {
		return false
	}
	return true
}
