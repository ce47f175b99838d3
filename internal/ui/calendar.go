package ui

import (
	"fmt"
	"strings"
	"time"
)

const daysPerWeek = 7

// monthWeeks lays out a month as rows of seven days starting on Sunday.
// Cells outside the month are zero values so callers can render padding.
func monthWeeks(year int, month time.Month) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	var weeks [][]time.Time
	week := make([]time.Time, daysPerWeek)
	col := int(first.Weekday())

	for day := 1; day <= daysIn; day++ {
		week[col] = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		col++
		if col == daysPerWeek {
			weeks = append(weeks, week)
			week = make([]time.Time, daysPerWeek)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// renderCalendar draws the month of m.selected as a grid. Days with
// tasks carry a dot marker, the selected day is highlighted, and today
// is underlined.
func (m model) renderCalendar() string {
	var b strings.Builder

	title := m.selected.Format("January 2006")
	b.WriteString(m.styles.AccentText.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	now := time.Now()
	for _, week := range monthWeeks(m.selected.Year(), m.selected.Month()) {
		for _, day := range week {
			if day.IsZero() {
				b.WriteString("    ")
				continue
			}

			marker := " "
			if m.store.HasTasksFor(day) {
				marker = "·"
			}
			cell := fmt.Sprintf("%2d%s", day.Day(), marker)

			switch {
			case sameDay(day, m.selected):
				b.WriteString(m.styles.Selected.Render(cell))
			case sameDay(day, now):
				b.WriteString(m.styles.Today.Render(cell))
			default:
				b.WriteString(m.styles.Text.Render(cell))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
