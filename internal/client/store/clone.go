package store

import "github.com/dmitrijs2005/moodisland/internal/client/models"

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneState(st State) State {
	out := st
	out.Dashboard.WeeklyMoodTrend = cloneSlice(st.Dashboard.WeeklyMoodTrend)
	out.Dashboard.Achievements = cloneAchievements(st.Dashboard.Achievements)
	out.Dashboard.QuickReminders = cloneSlice(st.Dashboard.QuickReminders)
	out.Diary.QuickEmojis = cloneSlice(st.Diary.QuickEmojis)
	out.Diary.Entries = cloneEntries(st.Diary.Entries)
	out.Chat.Sessions = cloneSessions(st.Chat.Sessions)
	out.Chat.QuickPrompts = cloneSlice(st.Chat.QuickPrompts)
	out.Cbt.Scenarios = cloneScenarios(st.Cbt.Scenarios)
	out.Treehole.Posts = cloneSlice(st.Treehole.Posts)
	return out
}

func cloneAchievements(in []models.Achievement) []models.Achievement {
	out := cloneSlice(in)
	for i := range out {
		out[i].AchievedAt = cloneStringPtr(out[i].AchievedAt)
	}
	return out
}

func cloneEntry(e models.DiaryEntry) models.DiaryEntry {
	e.Tags = cloneSlice(e.Tags)
	e.Image = cloneStringPtr(e.Image)
	return e
}

func cloneEntries(in []models.DiaryEntry) []models.DiaryEntry {
	if in == nil {
		return nil
	}
	out := make([]models.DiaryEntry, len(in))
	for i, e := range in {
		out[i] = cloneEntry(e)
	}
	return out
}

func cloneSession(s models.ChatSession) models.ChatSession {
	s.Messages = cloneSlice(s.Messages)
	return s
}

func cloneSessions(in []models.ChatSession) []models.ChatSession {
	if in == nil {
		return nil
	}
	out := make([]models.ChatSession, len(in))
	for i, s := range in {
		out[i] = cloneSession(s)
	}
	return out
}

func cloneScenario(sc models.CbtScenario) models.CbtScenario {
	sc.Tags = cloneSlice(sc.Tags)
	sc.Steps = cloneSteps(sc.Steps)
	return sc
}

func cloneScenarios(in []models.CbtScenario) []models.CbtScenario {
	if in == nil {
		return nil
	}
	out := make([]models.CbtScenario, len(in))
	for i, sc := range in {
		out[i] = cloneScenario(sc)
	}
	return out
}

func cloneSteps(in models.Steps) models.Steps {
	if in == nil {
		return nil
	}
	out := make(models.Steps, len(in))
	for i, step := range in {
		out[i] = cloneStep(step)
	}
	return out
}

func cloneStep(step models.Step) models.Step {
	switch v := step.(type) {
	case models.SingleSelectStep:
		v.Options = cloneSlice(v.Options)
		return v
	case models.LongTextStep:
		return v
	case models.EvidenceStep:
		return v
	default:
		// not a valid variant; kept as is so consumers can reject it
		return step
	}
}
