package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

func renderChat(w io.Writer, st store.State, _ map[string]string) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI 倾诉") + "\n")

	for _, s := range st.Chat.Sessions {
		marker := "  "
		if s.ID == st.Chat.ActiveSessionID {
			marker = accentStyle.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, s.Title, idStyle.Render(s.ID))
	}
	if len(st.Chat.Sessions) > 0 {
		b.WriteString("\n")
	}

	active := activeSession(st.Chat)
	switch {
	case active == nil:
		b.WriteString(mutedStyle.Render("还没有选中的对话。") + "\n")
	case len(active.Messages) == 0:
		b.WriteString(mutedStyle.Render("说点什么吧：say <内容>") + "\n")
	default:
		for _, m := range active.Messages {
			who := "我"
			style := accentStyle
			if m.Role == models.RoleAI {
				who = "小岛"
				style = navStyle
			}
			fmt.Fprintf(&b, "%s %s\n", style.Render(who+":"), m.Content)
		}
	}

	if len(st.Chat.QuickPrompts) > 0 {
		b.WriteString("\n" + headerStyle.Render("试试这样开口") + "\n")
		for _, p := range st.Chat.QuickPrompts {
			b.WriteString("• " + p + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func activeSession(c models.Chat) *models.ChatSession {
	for i := range c.Sessions {
		if c.Sessions[i].ID == c.ActiveSessionID {
			return &c.Sessions[i]
		}
	}
	return nil
}
