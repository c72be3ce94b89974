package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Session is the client-held record of who is signed in.
// It is what gets persisted in the "user" slot.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// PrimaryRole is the role used for routing decisions.
func (s Session) PrimaryRole() Role {
	if len(s.Roles) == 0 {
		return RoleUser
	}
	return s.Roles[0]
}

// HasRole reports whether any of the session roles is in roles.
func (s Session) HasRole(roles ...Role) bool {
	for _, have := range s.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Marshal serialises the session for the persisted slot.
func (s Session) Marshal() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return string(b), nil
}

// ParseSession decodes a persisted session record. A record that is not
// valid JSON or carries no id is reported as ErrCorruptSession.
func ParseSession(raw string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrCorruptSession)
	}
	s.Roles = normalizeRoles(s.Roles)
	return &s, nil
}

// User is the backend's canonical user record.
type User struct {
	ID        string `json:"_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Roles     []Role `json:"roles"`
}

// DisplayName joins first and last name.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session derives the client session from the backend record.
func (u User) Session() Session {
	return Session{
		ID:       u.ID,
		Username: u.DisplayName(),
		Roles:    normalizeRoles(u.Roles),
	}
}

func normalizeRoles(roles []Role) []Role {
	if len(roles) == 0 {
		return []Role{RoleUser}
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
