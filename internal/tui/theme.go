package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The console must remain readable on both light and dark terminal
// backgrounds. We use lipgloss.AdaptiveColor where possible and only apply
// "faint" styling on dark backgrounds (faint text on light terminals often
// becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// Common semantic colors used across the TUI.
var (
	colorMuted lipgloss.TerminalColor = ac("240", "243")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceBg lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")

	colorAccent lipgloss.TerminalColor = ac("27", "62") // blue

	colorError   lipgloss.TerminalColor = ac("160", "203")
	colorSuccess lipgloss.TerminalColor = ac("28", "78")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleSuccess() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSuccess)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI. termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE,
// which is useful for non-interactive output but can accidentally disable
// colors in a TUI, so here we only honor NO_COLOR and otherwise follow the
// terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// applyEnvTheme honors the explicit env overrides. It reports whether the
// environment decided the background.
func applyEnvTheme() bool {
	if v := strings.TrimSpace(os.Getenv("STAC_ADMIN_TUI_THEME")); v != "" {
		switch strings.ToLower(v) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return true
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return true
		case "auto":
			// fallthrough to heuristics/default
		default:
			// Unknown value: ignore.
		}
	}

	if v := strings.TrimSpace(os.Getenv("STAC_ADMIN_TUI_DARKBG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return true
		}
	}
	return false
}

// applyBackgroundHeuristic guesses the background from COLORFGBG, which is
// often "fg;bg" (sometimes more segments). Use the last segment as bg.
func applyBackgroundHeuristic() {
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
