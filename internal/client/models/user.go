// Package models defines the client-side data model of the mood journal:
// profile, dashboard, diary, chat, CBT exercises and the treehole feed.
//
// JSON tags follow the backend's camelCase wire shapes.
package models

// User is the signed-in student's profile.
type User struct {
	Nickname  string `json:"nickname"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Motto     string `json:"motto"`
}

// Credentials are posted to the login and register endpoints.
type Credentials struct {
	StudentID string `json:"studentId"`
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Password  string `json:"password"`
}
