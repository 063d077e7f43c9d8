package models

type CurrentMood struct {
	Emoji       string `json:"emoji"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// WeeklyMoodPoint is one weekday of the mood trend. The trend is expected to
// hold seven points, Monday first.
type WeeklyMoodPoint struct {
	Day   string `json:"day"`
	Score int    `json:"score"`
	Label string `json:"label"`
	Note  string `json:"note,omitempty"`
}

type Achievement struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	AchievedAt  *string `json:"achievedAt"`
}

// Achieved reports whether the achievement has been unlocked.
func (a Achievement) Achieved() bool {
	return a.AchievedAt != nil && *a.AchievedAt != ""
}

type DashboardSummary struct {
	CurrentMood     CurrentMood       `json:"currentMood"`
	StreakDays      int               `json:"streakDays"`
	WeeklyMoodTrend []WeeklyMoodPoint `json:"weeklyMoodTrend"`
	Achievements    []Achievement     `json:"achievements"`
	QuickReminders  []string          `json:"quickReminders"`
}
