package models

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []ChatMessage `json:"messages"`
}

// Chat holds the companion conversations. ActiveSessionID is a weak
// reference: it may name a session that is not loaded.
type Chat struct {
	Sessions        []ChatSession `json:"sessions"`
	ActiveSessionID string        `json:"activeSessionId"`
	QuickPrompts    []string      `json:"quickPrompts"`
}
