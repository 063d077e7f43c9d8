package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
)

// Action names a state transition. Subscribers receive it after the change.
type Action string

const (
	ActionAuthenticate          Action = "authenticate"
	ActionLogout                Action = "logout"
	ActionUpdateUser            Action = "updateUser"
	ActionUpdateCurrentMood     Action = "updateCurrentMood"
	ActionUpdateStreakDays      Action = "updateStreakDays"
	ActionUpdateWeeklyMoodTrend Action = "updateWeeklyMoodTrend"
	ActionUpdateAchievements    Action = "updateAchievements"
	ActionUpdateQuickReminders  Action = "updateQuickReminders"
	ActionUpdateEntries         Action = "updateEntries"
	ActionAddDiaryEntry         Action = "addDiaryEntry"
	ActionSetCbtScenarios       Action = "setCbtScenarios"
	ActionSetScenarioSteps      Action = "setScenarioSteps"
	ActionMarkScenarioFinished  Action = "markScenarioFinished"
	ActionSetQuickPrompts       Action = "setQuickPrompts"
	ActionSetChatSessions       Action = "setChatSessions"
	ActionSetActiveSession      Action = "setActiveSession"
	ActionAddUserMessage        Action = "addUserMessage"
	ActionAddAiMessage          Action = "addAiMessage"
	ActionUpdateGreeting        Action = "updateGreeting"
	ActionAddQuickEmoji         Action = "addQuickEmoji"
	ActionRemoveQuickEmoji      Action = "removeQuickEmoji"
	ActionMigrateQuickEmojis    Action = "migrateOldCustomQuickEmojis"
	ActionSetTreeholePosts      Action = "setTreeholePosts"
	ActionAddTreeholePost       Action = "addTreeholePost"
	ActionToggleWarm            Action = "toggleWarm"
)

// Authenticate stores the bearer token. The token is not inspected.
func (s *Store) Authenticate(token string) {
	s.mutate(ActionAuthenticate, func(st *State) {
		st.IsAuthenticated = token != ""
		st.Token = token
	})
}

// Logout clears the session. Calling it when logged out is harmless.
func (s *Store) Logout() {
	s.mutate(ActionLogout, func(st *State) {
		st.IsAuthenticated = false
		st.Token = ""
	})
}

// UpdateUser replaces every profile field, falling back to the placeholder
// for fields the caller left empty.
func (s *Store) UpdateUser(u models.User) {
	s.mutate(ActionUpdateUser, func(st *State) {
		st.User = models.User{
			Nickname:  orDefault(u.Nickname, DefaultNickname),
			StudentID: orDefault(u.StudentID, DefaultStudentID),
			Email:     orDefault(u.Email, DefaultEmail),
			Avatar:    orDefault(u.Avatar, DefaultAvatar),
			Motto:     orDefault(u.Motto, DefaultMotto),
		}
	})
}

func (s *Store) UpdateCurrentMood(m models.CurrentMood) {
	s.mutate(ActionUpdateCurrentMood, func(st *State) {
		st.Dashboard.CurrentMood = models.CurrentMood{
			Emoji:       orDefault(m.Emoji, DefaultMoodEmoji),
			Label:       orDefault(m.Label, DefaultMoodLabel),
			Description: orDefault(m.Description, DefaultMoodDescription),
		}
	})
}

func (s *Store) UpdateStreakDays(days int) {
	s.mutate(ActionUpdateStreakDays, func(st *State) { st.Dashboard.StreakDays = days })
}

// UpdateWeeklyMoodTrend replaces the trend as given; the point count is not
// checked.
func (s *Store) UpdateWeeklyMoodTrend(points []models.WeeklyMoodPoint) {
	points = cloneSlice(points)
	s.mutate(ActionUpdateWeeklyMoodTrend, func(st *State) { st.Dashboard.WeeklyMoodTrend = points })
}

func (s *Store) UpdateAchievements(list []models.Achievement) {
	list = cloneAchievements(list)
	s.mutate(ActionUpdateAchievements, func(st *State) { st.Dashboard.Achievements = list })
}

func (s *Store) UpdateQuickReminders(list []string) {
	list = cloneSlice(list)
	s.mutate(ActionUpdateQuickReminders, func(st *State) { st.Dashboard.QuickReminders = list })
}

func (s *Store) UpdateEntries(list []models.DiaryEntry) {
	list = cloneEntries(list)
	s.mutate(ActionUpdateEntries, func(st *State) { st.Diary.Entries = list })
}

// AddDiaryEntry puts e at the top of the diary. Missing id and date are
// filled in; the stored entry is returned.
func (s *Store) AddDiaryEntry(e models.DiaryEntry) models.DiaryEntry {
	e = cloneEntry(e)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date == "" {
		e.Date = s.now().Format(time.DateOnly)
	}
	s.mutate(ActionAddDiaryEntry, func(st *State) {
		st.Diary.Entries = append([]models.DiaryEntry{e}, st.Diary.Entries...)
	})
	return cloneEntry(e)
}

func (s *Store) SetCbtScenarios(list []models.CbtScenario) {
	list = cloneScenarios(list)
	s.mutate(ActionSetCbtScenarios, func(st *State) { st.Cbt.Scenarios = list })
}

// SetScenarioSteps attaches steps fetched separately from the scenario list.
func (s *Store) SetScenarioSteps(id string, steps models.Steps) bool {
	steps = cloneSteps(steps)
	return s.mutateIf(ActionSetScenarioSteps, func(st *State) bool {
		i := scenarioIndex(st.Cbt.Scenarios, id)
		if i < 0 {
			return false
		}
		st.Cbt.Scenarios[i].Steps = steps
		return true
	})
}

func (s *Store) MarkScenarioFinished(id string) bool {
	return s.mutateIf(ActionMarkScenarioFinished, func(st *State) bool {
		i := scenarioIndex(st.Cbt.Scenarios, id)
		if i < 0 {
			return false
		}
		st.Cbt.Scenarios[i].Finished = true
		return true
	})
}

func (s *Store) SetQuickPrompts(list []string) {
	list = cloneSlice(list)
	s.mutate(ActionSetQuickPrompts, func(st *State) { st.Chat.QuickPrompts = list })
}

func (s *Store) SetChatSessions(list []models.ChatSession) {
	list = cloneSessions(list)
	s.mutate(ActionSetChatSessions, func(st *State) { st.Chat.Sessions = list })
}

// SetActiveSession points the chat view at id. The id is not checked against
// the loaded sessions.
func (s *Store) SetActiveSession(id string) {
	s.mutate(ActionSetActiveSession, func(st *State) { st.Chat.ActiveSessionID = id })
}

// AddUserMessage appends a user message to the session. It reports false and
// changes nothing when the session is not loaded.
func (s *Store) AddUserMessage(sessionID, content string) bool {
	return s.addMessage(ActionAddUserMessage, sessionID, models.RoleUser, content)
}

func (s *Store) AddAiMessage(sessionID, content string) bool {
	return s.addMessage(ActionAddAiMessage, sessionID, models.RoleAI, content)
}

func (s *Store) addMessage(a Action, sessionID string, role models.Role, content string) bool {
	now := s.now().UTC()
	ts := isoTimestamp(now)

	id := sessionID + "-" + ts
	if role == models.RoleAI {
		id = sessionID + "-ai-" + ts
	}

	return s.mutateIf(a, func(st *State) bool {
		i := sessionIndex(st.Chat.Sessions, sessionID)
		if i < 0 {
			return false
		}
		sess := &st.Chat.Sessions[i]
		sess.Messages = append(sess.Messages, models.ChatMessage{
			ID:        id,
			Role:      role,
			Content:   content,
			CreatedAt: now,
		})
		sess.UpdatedAt = now
		return true
	})
}

func (s *Store) SetTreeholePosts(list []models.TreeholePost) {
	list = cloneSlice(list)
	s.mutate(ActionSetTreeholePosts, func(st *State) { st.Treehole.Posts = list })
}

// AddTreeholePost prepends p to the feed, filling in id and creation time
// when missing.
func (s *Store) AddTreeholePost(p models.TreeholePost) models.TreeholePost {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.mutate(ActionAddTreeholePost, func(st *State) {
		st.Treehole.Posts = append([]models.TreeholePost{p}, st.Treehole.Posts...)
	})
	return p
}

// ToggleWarm flips the viewer's warm on a post and adjusts the counter.
func (s *Store) ToggleWarm(id string) bool {
	return s.mutateIf(ActionToggleWarm, func(st *State) bool {
		for i := range st.Treehole.Posts {
			p := &st.Treehole.Posts[i]
			if p.ID != id {
				continue
			}
			p.Liked = !p.Liked
			if p.Liked {
				p.Warms++
			} else if p.Warms > 0 {
				p.Warms--
			}
			return true
		}
		return false
	})
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func sessionIndex(list []models.ChatSession, id string) int {
	for i, sess := range list {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func scenarioIndex(list []models.CbtScenario, id string) int {
	for i, sc := range list {
		if sc.ID == id {
			return i
		}
	}
	return -1
}
