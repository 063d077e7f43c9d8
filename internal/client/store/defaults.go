package store

import "github.com/dmitrijs2005/moodisland/internal/client/models"

// Placeholder values written whenever the server leaves a field blank.
const (
	DefaultNickname  = "名字不见了😭"
	DefaultStudentID = "学号不见了😭"
	DefaultEmail     = "邮箱不见了😭"
	DefaultAvatar    = "https://api.dicebear.com/7.x/pixel-art/svg?seed=linzhou"
	DefaultMotto     = "小岛虽小，总能靠岸。"

	DefaultMoodEmoji       = "🌤️"
	DefaultMoodLabel       = "平静"
	DefaultMoodDescription = "你保持着温柔而稳定的节奏，继续为自己创造松弛感吧。"

	DefaultGreeting = "你好"
)

// Preference keys.
const (
	QuickEmojisKey       = "quickEmojisPersisted"
	LegacyQuickEmojisKey = "customQuickEmojis"
	TokenKey             = "token"
)

func defaultUser() models.User {
	return models.User{
		Nickname:  DefaultNickname,
		StudentID: DefaultStudentID,
		Email:     DefaultEmail,
		Avatar:    DefaultAvatar,
		Motto:     DefaultMotto,
	}
}

func defaultMood() models.CurrentMood {
	return models.CurrentMood{
		Emoji:       DefaultMoodEmoji,
		Label:       DefaultMoodLabel,
		Description: DefaultMoodDescription,
	}
}

// DefaultQuickEmojis is the built-in shortcut list shown before the user
// customises anything.
func DefaultQuickEmojis() []models.QuickEmoji {
	return []models.QuickEmoji{
		{Emoji: "🤩", Label: "超充实"},
		{Emoji: "😊", Label: "被照亮"},
		{Emoji: "😐", Label: "平平淡淡"},
		{Emoji: "😔", Label: "有点低落"},
		{Emoji: "😣", Label: "紧绷"},
		{Emoji: "🥱", Label: "想休息"},
	}
}

func defaultQuickPrompts() []string {
	return []string{
		"我有点睡不着，可以陪我聊聊吗？",
		"帮我整理一下今天的情绪亮点。",
		"我担心自己的表现不够好。",
	}
}

func defaultState() State {
	return State{
		Greeting: DefaultGreeting,
		User:     defaultUser(),
		Dashboard: models.DashboardSummary{
			CurrentMood:     defaultMood(),
			WeeklyMoodTrend: []models.WeeklyMoodPoint{},
			Achievements:    []models.Achievement{},
			QuickReminders:  []string{},
		},
		Diary: models.Diary{
			QuickEmojis: DefaultQuickEmojis(),
			Entries:     []models.DiaryEntry{},
		},
		Chat: models.Chat{
			Sessions:     []models.ChatSession{},
			QuickPrompts: defaultQuickPrompts(),
		},
		Cbt:      models.Cbt{Scenarios: []models.CbtScenario{}},
		Treehole: models.Treehole{Posts: []models.TreeholePost{}},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
