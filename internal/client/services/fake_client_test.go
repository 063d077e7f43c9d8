package services

import (
	"context"

	"github.com/dmitrijs2005/moodisland/internal/client/client"
	"github.com/dmitrijs2005/moodisland/internal/client/models"
)

// fakeClient implements client.Client for unit tests. Unset results come
// back zero-valued; set *Err fields to fail a call.
type fakeClient struct {
	PingErr error

	LoginRet  *client.AuthResult
	LoginErr  error
	LastLogin models.Credentials

	RegisterRet *client.AuthResult
	RegisterErr error

	ProfileRet   *models.User
	ProfileErr   error
	DashboardRet *models.DashboardSummary
	DashboardErr error

	EntriesRet  []models.DiaryEntry
	EntriesErr  error
	CreateErr   error
	LastCreated models.DiaryEntry
	UploadKey   string
	UploadErr   error

	SessionsRet []models.ChatSession
	SessionsErr error
	ReplyRet    *models.ChatMessage
	ReplyErr    error

	ScenariosRet []models.CbtScenario
	ScenariosErr error
	StepsRet     models.Steps
	StepsErr     error
	StepsCalls   int

	PostsRet []models.TreeholePost
	PostsErr error
	PostErr  error
	WarmErr  error

	Calls []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) call(name string) { f.Calls = append(f.Calls, name) }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.call("Ping")
	return f.PingErr
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*client.AuthResult, error) {
	f.call("Login")
	f.LastLogin = creds
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet == nil {
		return &client.AuthResult{}, nil
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Register(ctx context.Context, creds models.Credentials) (*client.AuthResult, error) {
	f.call("Register")
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	if f.RegisterRet == nil {
		return &client.AuthResult{}, nil
	}
	return f.RegisterRet, nil
}

func (f *fakeClient) Profile(ctx context.Context) (*models.User, error) {
	f.call("Profile")
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	if f.ProfileRet == nil {
		return &models.User{}, nil
	}
	return f.ProfileRet, nil
}

func (f *fakeClient) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	f.call("Dashboard")
	if f.DashboardErr != nil {
		return nil, f.DashboardErr
	}
	if f.DashboardRet == nil {
		return &models.DashboardSummary{}, nil
	}
	return f.DashboardRet, nil
}

func (f *fakeClient) DiaryEntries(ctx context.Context) ([]models.DiaryEntry, error) {
	f.call("DiaryEntries")
	return f.EntriesRet, f.EntriesErr
}

func (f *fakeClient) CreateDiaryEntry(ctx context.Context, entry models.DiaryEntry) (*models.DiaryEntry, error) {
	f.call("CreateDiaryEntry")
	f.LastCreated = entry
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	entry.ID = "srv-1"
	return &entry, nil
}

func (f *fakeClient) UploadDiaryImage(ctx context.Context, contentType string, data []byte) (string, error) {
	f.call("UploadDiaryImage")
	return f.UploadKey, f.UploadErr
}

func (f *fakeClient) ChatSessions(ctx context.Context) ([]models.ChatSession, error) {
	f.call("ChatSessions")
	return f.SessionsRet, f.SessionsErr
}

func (f *fakeClient) SendChatMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error) {
	f.call("SendChatMessage")
	if f.ReplyErr != nil {
		return nil, f.ReplyErr
	}
	if f.ReplyRet == nil {
		return &models.ChatMessage{Role: models.RoleAI}, nil
	}
	return f.ReplyRet, nil
}

func (f *fakeClient) CbtScenarios(ctx context.Context) ([]models.CbtScenario, error) {
	f.call("CbtScenarios")
	return f.ScenariosRet, f.ScenariosErr
}

func (f *fakeClient) CbtScenarioSteps(ctx context.Context, scenarioID string) (models.Steps, error) {
	f.call("CbtScenarioSteps")
	f.StepsCalls++
	return f.StepsRet, f.StepsErr
}

func (f *fakeClient) TreeholePosts(ctx context.Context) ([]models.TreeholePost, error) {
	f.call("TreeholePosts")
	return f.PostsRet, f.PostsErr
}

func (f *fakeClient) CreateTreeholePost(ctx context.Context, content, moodEmoji string) (*models.TreeholePost, error) {
	f.call("CreateTreeholePost")
	if f.PostErr != nil {
		return nil, f.PostErr
	}
	return &models.TreeholePost{ID: "srv-post", Content: content, MoodEmoji: moodEmoji}, nil
}

func (f *fakeClient) WarmTreeholePost(ctx context.Context, postID string) (*models.TreeholePost, error) {
	f.call("WarmTreeholePost")
	if f.WarmErr != nil {
		return nil, f.WarmErr
	}
	return &models.TreeholePost{ID: postID, Liked: true}, nil
}
