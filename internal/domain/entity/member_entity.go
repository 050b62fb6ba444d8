package entity

import (
	"strings"
	"time"
)

// Member is the aggregate root for accounts.
// Password holds a bcrypt hash and is never serialized.
type Member struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	YOB       *int      `json:"YOB,omitempty"`
	Gender    *bool     `json:"gender,omitempty"` // true = male, false = female
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the authenticated member context attached to one request.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Identity returns the normalized request identity for m.
func (m *Member) Identity() Identity {
	return Identity{ID: m.ID, Email: m.Email, Name: m.Name, IsAdmin: m.IsAdmin}
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
