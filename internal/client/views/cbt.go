package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

func renderCbtList(w io.Writer, st store.State, _ map[string]string) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CBT 练习") + "\n")

	if len(st.Cbt.Scenarios) == 0 {
		b.WriteString(mutedStyle.Render("暂时没有练习场景，试试 refresh。") + "\n")
	}
	for _, sc := range st.Cbt.Scenarios {
		done := ""
		if sc.Finished {
			done = " " + accentStyle.Render("✓ 已完成")
		}
		fmt.Fprintf(&b, "%s %s %s%s\n", titleStyle.Render(sc.Title), stars(sc.Difficulty), mutedStyle.Render(sc.DurationLabel), done)
		if sc.Description != "" {
			b.WriteString("  " + sc.Description + "\n")
		}
		fmt.Fprintf(&b, "  %s\n", idStyle.Render("go /cbt/scenario/"+sc.ID))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderCbtScenario(w io.Writer, st store.State, props map[string]string) error {
	id := props["id"]
	var sc *models.CbtScenario
	for i := range st.Cbt.Scenarios {
		if st.Cbt.Scenarios[i].ID == id {
			sc = &st.Cbt.Scenarios[i]
			break
		}
	}
	if sc == nil {
		_, err := fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("找不到练习场景 %q", id)))
		return err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(sc.Title) + " " + stars(sc.Difficulty) + "\n")
	if sc.Description != "" {
		b.WriteString(mutedStyle.Render(sc.Description) + "\n")
	}
	b.WriteString("\n")

	if len(sc.Steps) == 0 {
		b.WriteString(mutedStyle.Render("步骤加载中…") + "\n")
	}
	for i, step := range sc.Steps {
		text, err := renderStep(i+1, step)
		if err != nil {
			return err
		}
		b.WriteString(text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderStep(n int, step models.Step) (string, error) {
	var b strings.Builder
	switch s := step.(type) {
	case models.SingleSelectStep:
		fmt.Fprintf(&b, "%d. %s\n   %s\n", n, headerStyle.Render(s.Title), s.Prompt)
		for _, o := range s.Options {
			b.WriteString("   ○ " + o.Label + "\n")
		}
	case models.LongTextStep:
		fmt.Fprintf(&b, "%d. %s\n   %s\n", n, headerStyle.Render(s.Title), s.Prompt)
		if s.Placeholder != "" {
			b.WriteString("   " + mutedStyle.Render(s.Placeholder) + "\n")
		}
	case models.EvidenceStep:
		fmt.Fprintf(&b, "%d. %s\n   %s\n", n, headerStyle.Render(s.Title), s.Prompt)
		fmt.Fprintf(&b, "   支持：%s\n   反驳：%s\n", mutedStyle.Render(s.Placeholders.Support), mutedStyle.Render(s.Placeholders.Against))
	default:
		return "", fmt.Errorf("render step %d: %w: %T", n, models.ErrUnknownStepType, step)
	}
	return b.String(), nil
}

func stars(difficulty int) string {
	difficulty = max(0, min(difficulty, 5))
	return accentStyle.Render(strings.Repeat("★", difficulty)) + mutedStyle.Render(strings.Repeat("☆", 5-difficulty))
}
