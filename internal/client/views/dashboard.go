package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

const maxMoodScore = 5

func renderDashboard(w io.Writer, st store.State, _ map[string]string) error {
	d := st.Dashboard
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s，%s", st.Greeting, st.User.Nickname)) + "\n")
	mood := fmt.Sprintf("%s %s\n%s", d.CurrentMood.Emoji, d.CurrentMood.Label, mutedStyle.Render(d.CurrentMood.Description))
	b.WriteString(cardStyle.Render(mood) + "\n")
	fmt.Fprintf(&b, "连续记录 %s 天\n\n", accentStyle.Render(fmt.Sprint(d.StreakDays)))

	if len(d.WeeklyMoodTrend) > 0 {
		b.WriteString(headerStyle.Render("本周心情") + "\n")
		for _, p := range d.WeeklyMoodTrend {
			fmt.Fprintf(&b, "%-4s %-5s %s", p.Day, bar(p.Score), p.Label)
			if p.Note != "" {
				b.WriteString(" " + mutedStyle.Render(p.Note))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(d.Achievements) > 0 {
		b.WriteString(headerStyle.Render("成就") + "\n")
		for _, a := range d.Achievements {
			if a.Achieved() {
				fmt.Fprintf(&b, "%s %s %s\n", a.Icon, accentStyle.Render(a.Name), mutedStyle.Render(*a.AchievedAt))
			} else {
				fmt.Fprintf(&b, "%s %s\n", a.Icon, mutedStyle.Render(a.Name+" · 未解锁"))
			}
		}
		b.WriteString("\n")
	}

	if len(d.QuickReminders) > 0 {
		b.WriteString(headerStyle.Render("小提醒") + "\n")
		for _, r := range d.QuickReminders {
			b.WriteString("• " + r + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func bar(score int) string {
	score = max(0, min(score, maxMoodScore))
	return strings.Repeat("█", score) + strings.Repeat("░", maxMoodScore-score)
}
