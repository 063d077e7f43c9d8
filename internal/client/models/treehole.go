package models

import "time"

// TreeholePost is an anonymous entry of the public feed. Warms counts the
// "warm hugs" other students sent; Liked records the current user's own.
type TreeholePost struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	MoodEmoji string    `json:"moodEmoji"`
	Warms     int       `json:"warms"`
	Liked     bool      `json:"liked,omitempty"`
}

type Treehole struct {
	Posts []TreeholePost `json:"posts"`
}
