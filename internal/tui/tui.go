package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NASA-IMPACT/stac-admin/internal/api"
	"github.com/NASA-IMPACT/stac-admin/internal/store"
)

// Run starts the interactive console against the given catalog API.
func Run(client *api.Client) error {
	applyColorProfilePreference()
	// Precedence: env override > saved config > terminal heuristics.
	if !applyEnvTheme() && !applyConfigTheme() {
		applyBackgroundHeuristic()
	}

	// Draft persistence is best-effort; the console works without it.
	drafts, err := store.OpenDrafts(context.Background())
	if err != nil {
		drafts = nil
	} else {
		defer drafts.Close()
	}

	m := newAppModel(client, drafts)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// applyConfigTheme applies the saved theme preference. It reports whether
// the config decided the background.
func applyConfigTheme() bool {
	cfg, err := store.LoadConfig()
	if err != nil || cfg.TUI == nil {
		return false
	}
	switch cfg.TUI.Theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return true
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return true
	}
	return false
}
