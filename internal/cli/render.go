package cli

import (
	"fmt"
	"strings"

	"cafeplanner/internal/planner"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	metaStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	savingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func renderPlans(plans []planner.Plan) string {
	if len(plans) == 0 {
		return metaStyle.Render("no plans yet, try: planctl create \"Weekend café\"")
	}

	var b strings.Builder
	for i, plan := range plans {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(plan.Title))
		b.WriteString(metaStyle.Render("  " + shortID(plan.ID)))
		b.WriteString("\n")

		var meta []string
		if plan.CafeName != "" {
			meta = append(meta, plan.CafeName)
		} else if plan.CafeID != nil {
			meta = append(meta, fmt.Sprintf("cafe #%d", *plan.CafeID))
		}
		if plan.Date != "" {
			meta = append(meta, plan.Date)
		}
		if plan.TimeText != "" {
			meta = append(meta, plan.TimeText)
		}
		if len(meta) > 0 {
			b.WriteString(metaStyle.Render("  " + strings.Join(meta, " · ")))
			b.WriteString("\n")
		}

		for _, item := range plan.Items {
			line := fmt.Sprintf("  [%s] %s %s", checkbox(item.Done), item.Text, metaStyle.Render(shortID(item.ID)))
			if item.Done {
				line = doneStyle.Render(fmt.Sprintf("  [x] %s", item.Text)) + " " + metaStyle.Render(shortID(item.ID))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderActivities(acts []planner.Activity) string {
	if len(acts) == 0 {
		return metaStyle.Render("no activity yet")
	}
	var b strings.Builder
	for _, act := range acts {
		verb := "created"
		if act.Type == planner.ActivityCompleted {
			verb = "completed"
		}
		line := fmt.Sprintf("%s  %s %q", act.Timestamp.Format("2006-01-02 15:04"), verb, act.Title)
		if act.CafeName != "" {
			line += metaStyle.Render(" @ " + act.CafeName)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderState(state planner.SaveState) string {
	switch state {
	case planner.StateSaved:
		return savedStyle.Render("saved")
	case planner.StateSaving:
		return savingStyle.Render("saving…")
	case planner.StateError:
		return errorStyle.Render("error (local cache is up to date)")
	default:
		return metaStyle.Render("idle")
	}
}

func checkbox(done bool) string {
	if done {
		return "x"
	}
	return " "
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
