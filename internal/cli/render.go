package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/becoming/internal/calendar"
	"github.com/julianstephens/becoming/internal/momentum"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	DangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// StatusGlyph is the one-character calendar mark for a day status.
func StatusGlyph(s calendar.Status) string {
	switch s {
	case calendar.StatusComplete:
		return SuccessStyle.Render("●")
	case calendar.StatusPartial:
		return WarningStyle.Render("◐")
	case calendar.StatusMissed:
		return DangerStyle.Render("○")
	default:
		return MutedStyle.Render("·")
	}
}

// ScoreStyle colours a 0-100 score.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return SuccessStyle
	case score >= 50:
		return WarningStyle
	default:
		return DangerStyle
	}
}

// ScoreBar draws a ten-cell bar for a 0-100 score.
func ScoreBar(score int) string {
	filled := (score + 5) / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return ScoreStyle(score).Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", 10-filled))
}

// FormatResult is a one-line summary of a score result.
func FormatResult(label string, r momentum.Result) string {
	return fmt.Sprintf("%-10s %s %s  %s",
		label,
		ScoreBar(r.Score),
		ScoreStyle(r.Score).Render(fmt.Sprintf("%3d%%", r.Score)),
		MutedStyle.Render(fmt.Sprintf("%d/%d over %d of %d days", r.Completed, r.Expected, r.EligibleDays, r.WindowDays)),
	)
}

// Check returns a done/not-done marker.
func Check(done bool) string {
	if done {
		return SuccessStyle.Render("[x]")
	}
	return "[ ]"
}
