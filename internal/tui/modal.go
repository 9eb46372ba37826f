package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderModalBox renders a bordered overlay box centered in the given frame.
// Lines wider than the box are truncated, not wrapped, so pre-formatted
// bodies keep their shape.
func renderModalBox(title, body string, frameWidth, frameHeight int) string {
	width := frameWidth - 10
	if width > 76 {
		width = 76
	}
	if width < 24 {
		width = 24
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Width(width).
		Padding(0, 1)
	bodyStyle := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Width(width).
		Padding(0, 1)

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width-2, "…")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorSurfaceBg).
		Render(titleStyle.Render(title) + "\n" + bodyStyle.Render(strings.Join(lines, "\n")))

	return lipgloss.Place(frameWidth, frameHeight, lipgloss.Center, lipgloss.Center, box)
}

// renderErrorModal shows projected submission errors. Lines come from the
// error projector and are never empty.
func renderErrorModal(lines []string, frameWidth, frameHeight int) string {
	body := styleError().Render(strings.Join(lines, "\n")) +
		"\n\n" + styleMuted().Render("esc to dismiss")
	return renderModalBox("Submission failed", body, frameWidth, frameHeight)
}

// renderConfirmModal shows a yes/no prompt for destructive actions.
func renderConfirmModal(question string, frameWidth, frameHeight int) string {
	body := question + "\n\n" + styleMuted().Render("y to confirm, esc to cancel")
	return renderModalBox("Confirm", body, frameWidth, frameHeight)
}
