package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/netx"
)

// Backend routes, relative to the API base.
const (
	pathPing          = "/ping"
	pathLogin         = "/auth/login"
	pathRegister      = "/auth/register"
	pathProfile       = "/user/profile"
	pathDashboard     = "/dashboard/summary"
	pathDiaryEntries  = "/diary/entries"
	pathDiaryImages   = "/diary/images"
	pathChatSessions  = "/chat/sessions"
	pathCbtScenarios  = "/cbt/scenarios"
	pathTreeholePosts = "/treehole/posts"
)

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathPing, nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, pathLogin, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, creds models.Credentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, pathRegister, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, pathProfile, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	var d models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, pathDashboard, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) DiaryEntries(ctx context.Context) ([]models.DiaryEntry, error) {
	var list []models.DiaryEntry
	if err := c.do(ctx, http.MethodGet, pathDiaryEntries, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateDiaryEntry(ctx context.Context, entry models.DiaryEntry) (*models.DiaryEntry, error) {
	var created models.DiaryEntry
	if err := c.do(ctx, http.MethodPost, pathDiaryEntries, entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadDiaryImage asks the backend for a presigned URL, PUTs data there and
// returns the object key to store on the diary entry.
func (c *HTTPClient) UploadDiaryImage(ctx context.Context, contentType string, data []byte) (string, error) {
	var up models.ImageUpload
	req := struct {
		ContentType string `json:"contentType"`
		Size        int    `json:"size"`
	}{contentType, len(data)}

	if err := c.do(ctx, http.MethodPost, pathDiaryImages, req, &up); err != nil {
		return "", err
	}
	if up.URL == "" {
		return "", fmt.Errorf("presign %s: empty upload url", pathDiaryImages)
	}

	if err := netx.UploadToPresignedURL(ctx, c.upload, up.URL, contentType, data); err != nil {
		return "", fmt.Errorf("upload diary image: %w", err)
	}
	return up.Key, nil
}

func (c *HTTPClient) ChatSessions(ctx context.Context) ([]models.ChatSession, error) {
	var list []models.ChatSession
	if err := c.do(ctx, http.MethodGet, pathChatSessions, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SendChatMessage posts the user's message and returns the companion's reply.
func (c *HTTPClient) SendChatMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error) {
	var reply models.ChatMessage
	path := pathChatSessions + "/" + url.PathEscape(sessionID) + "/messages"
	in := struct {
		Content string `json:"content"`
	}{content}

	if err := c.do(ctx, http.MethodPost, path, in, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *HTTPClient) CbtScenarios(ctx context.Context) ([]models.CbtScenario, error) {
	var list []models.CbtScenario
	if err := c.do(ctx, http.MethodGet, pathCbtScenarios, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CbtScenarioSteps(ctx context.Context, scenarioID string) (models.Steps, error) {
	var steps models.Steps
	path := pathCbtScenarios + "/" + url.PathEscape(scenarioID) + "/steps"
	if err := c.do(ctx, http.MethodGet, path, nil, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (c *HTTPClient) TreeholePosts(ctx context.Context) ([]models.TreeholePost, error) {
	var list []models.TreeholePost
	if err := c.do(ctx, http.MethodGet, pathTreeholePosts, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateTreeholePost(ctx context.Context, content, moodEmoji string) (*models.TreeholePost, error) {
	var post models.TreeholePost
	in := struct {
		Content   string `json:"content"`
		MoodEmoji string `json:"moodEmoji"`
	}{content, moodEmoji}

	if err := c.do(ctx, http.MethodPost, pathTreeholePosts, in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// WarmTreeholePost toggles the current user's warm on a post and returns
// the updated post.
func (c *HTTPClient) WarmTreeholePost(ctx context.Context, postID string) (*models.TreeholePost, error) {
	var post models.TreeholePost
	path := pathTreeholePosts + "/" + url.PathEscape(postID) + "/warm"
	if err := c.do(ctx, http.MethodPost, path, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
