package auth

import "strings"

// Role is the identity's role
type Role = string

const (
	// RoleEmployer posts and manages job listings
	RoleEmployer Role = "employer"
	// RoleJobseeker browses and applies to job listings
	RoleJobseeker Role = "jobseeker"
)

// IsValidRole checks if the role is one of the two portal roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleEmployer, RoleJobseeker:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(roleStr)))
	return role, IsValidRole(role)
}

// Identity is the authenticated principal. The Profile payload is opaque,
// role-specific data collected by the registration forms; the core never
// inspects it.
type Identity struct {
	ID      string         `json:"id,omitempty"`
	Role    Role           `json:"role,omitempty"`
	Name    string         `json:"name,omitempty"`
	Email   string         `json:"email,omitempty"`
	Profile map[string]any `json:"profile,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate shared session state
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}

	clone := *i
	if i.Profile != nil {
		clone.Profile = make(map[string]any, len(i.Profile))
		for k, v := range i.Profile {
			clone.Profile[k] = v
		}
	}
	return &clone
}

// RegistrationPayload is the role-specific form data submitted to the
// registration endpoint. Shape depends on role and is validated upstream.
type RegistrationPayload map[string]any

// String returns the payload value under key when it is a string
func (p RegistrationPayload) String(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// Clone copies the payload so brokers can strip credential fields safely
func (p RegistrationPayload) Clone() RegistrationPayload {
	if p == nil {
		return nil
	}
	clone := make(RegistrationPayload, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}
