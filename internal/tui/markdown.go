package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with
	// WithAutoStyle can trigger terminal capability/background queries that
	// may block on some terminals, so we use a fixed style and cache.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// renderMarkdown renders the description panel. Collections commonly carry
// markdown descriptions; plain text passes through unchanged.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
