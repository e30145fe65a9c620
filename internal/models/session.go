package models

import "time"

// Session is the server-side identity record behind a session token.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) User() *SessionUser {
	return &SessionUser{
		ID:       s.UserID,
		Username: s.Username,
		Role:     s.Role,
		Name:     s.Name,
	}
}

type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}
