package client

import (
	"context"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
)

// Client is the backend API contract used by the services layer.
type Client interface {
	Ping(ctx context.Context) error

	Login(ctx context.Context, creds models.Credentials) (*AuthResult, error)
	Register(ctx context.Context, creds models.Credentials) (*AuthResult, error)
	Profile(ctx context.Context) (*models.User, error)

	Dashboard(ctx context.Context) (*models.DashboardSummary, error)

	DiaryEntries(ctx context.Context) ([]models.DiaryEntry, error)
	CreateDiaryEntry(ctx context.Context, entry models.DiaryEntry) (*models.DiaryEntry, error)
	UploadDiaryImage(ctx context.Context, contentType string, data []byte) (string, error)

	ChatSessions(ctx context.Context) ([]models.ChatSession, error)
	SendChatMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error)

	CbtScenarios(ctx context.Context) ([]models.CbtScenario, error)
	CbtScenarioSteps(ctx context.Context, scenarioID string) (models.Steps, error)

	TreeholePosts(ctx context.Context) ([]models.TreeholePost, error)
	CreateTreeholePost(ctx context.Context, content, moodEmoji string) (*models.TreeholePost, error)
	WarmTreeholePost(ctx context.Context, postID string) (*models.TreeholePost, error)
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// TokenSource supplies the bearer token for outbound requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// SessionTerminator is told to drop the session when the backend answers 401.
type SessionTerminator interface {
	Logout()
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, msg string)

func (f NotifierFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }
