package tui

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/tomo/internal/history"
	"github.com/fakeyudi/tomo/internal/session"
)

// renderHistory lists the session log grouped by day, newest first, below a
// card with today's totals.
func renderHistory(sess *session.Session, st styles, th Theme) string {
	var sb strings.Builder
	now := sess.Now()
	today := sess.Today()

	sb.WriteString(heading(st, "Today's progress"))
	sb.WriteString(st.card.Render(fmt.Sprintf("%d focus sessions\n%d minutes",
		today.FocusSessionCount, today.TotalMinutes)) + "\n")

	log := sess.History()
	groups := log.GroupByDay()
	sb.WriteString(heading(st, fmt.Sprintf("History (%d)", log.Len())))
	if len(groups) == 0 {
		sb.WriteString(st.dim.Render("  No completed sessions yet.") + "\n")
		return sb.String()
	}
	for _, g := range groups {
		sb.WriteString(dayBlock(g, log.DayLabel(g.Day, now), st, th))
	}
	return sb.String()
}

func dayBlock(g history.DayGroup, label string, st styles, th Theme) string {
	var sb strings.Builder
	sb.WriteString(st.label.Render("  "+label) + "\n")
	for _, r := range g.Records {
		ts := st.dim.Render(r.CompletedAt.Format("15:04"))
		sb.WriteString(fmt.Sprintf("    %s  %s  %d min\n", ts, th.badge(r.Phase), r.DurationMinutes))
	}
	sb.WriteString("\n")
	return sb.String()
}

func heading(st styles, s string) string {
	return "\n" + st.heading.Render("  "+s) + "\n\n"
}
