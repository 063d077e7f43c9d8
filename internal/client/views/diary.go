package views

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

func renderDiary(w io.Writer, st store.State, _ map[string]string) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("心情日记") + "\n")

	quick := make([]string, 0, len(st.Diary.QuickEmojis))
	for _, q := range st.Diary.QuickEmojis {
		item := q.Emoji + " " + q.Label
		if q.Custom {
			item += "*"
		}
		quick = append(quick, item)
	}
	b.WriteString(strings.Join(quick, "  ") + "\n")
	b.WriteString(mutedStyle.Render("* 自定义 · emoji add <表情> <名称> / emoji rm <表情>") + "\n\n")

	cal := store.CalendarOf(st.Diary.Entries)
	if len(cal) > 0 {
		dates := make([]string, 0, len(cal))
		for d := range cal {
			dates = append(dates, d)
		}
		slices.Sort(dates)
		b.WriteString(headerStyle.Render("心情日历") + "\n")
		for _, d := range dates {
			fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(d), cal[d])
		}
		b.WriteString("\n")
	}

	if len(st.Diary.Entries) == 0 {
		b.WriteString(mutedStyle.Render("还没有日记，diary add <表情> <内容> 写下第一篇吧。") + "\n")
	}
	for _, e := range st.Diary.Entries {
		fmt.Fprintf(&b, "%s %s %s\n", mutedStyle.Render(e.Date), e.MoodEmoji, e.MoodLabel)
		if e.Content != "" {
			b.WriteString("  " + e.Content + "\n")
		}
		if len(e.Tags) > 0 {
			b.WriteString("  " + idStyle.Render("#"+strings.Join(e.Tags, " #")) + "\n")
		}
		if e.Image != nil && *e.Image != "" {
			b.WriteString("  " + idStyle.Render("🖼 "+*e.Image) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
