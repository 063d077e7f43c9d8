package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

func renderProfile(w io.Writer, st store.State, _ map[string]string) error {
	u := st.User
	var b strings.Builder
	b.WriteString(titleStyle.Render(u.Nickname) + "\n")
	b.WriteString(mutedStyle.Render(u.Motto) + "\n\n")
	fmt.Fprintf(&b, "学号  %s\n", u.StudentID)
	fmt.Fprintf(&b, "邮箱  %s\n", u.Email)
	fmt.Fprintf(&b, "头像  %s\n", idStyle.Render(u.Avatar))
	b.WriteString("\n" + mutedStyle.Render("logout 退出登录 · export 导出日记") + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTreehole writes the anonymous feed.
func RenderTreehole(w io.Writer, posts []models.TreeholePost) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("树洞") + "\n")
	if len(posts) == 0 {
		b.WriteString(mutedStyle.Render("树洞里很安静。post <内容> 说点什么吧。") + "\n")
	}
	for _, p := range posts {
		heart := "♡"
		if p.Liked {
			heart = accentStyle.Render("♥")
		}
		fmt.Fprintf(&b, "%s %s\n", p.MoodEmoji, p.Content)
		fmt.Fprintf(&b, "  %s %d  %s  %s\n", heart, p.Warms, mutedStyle.Render(p.CreatedAt.Format("01-02 15:04")), idStyle.Render(p.ID))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
