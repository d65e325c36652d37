// Package toc shows a deck's table of contents with a live search filter
// and jump-to-card navigation.
package toc

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/router"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/screens/flip"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// tocLoadedMsg is sent when the table of contents has been fetched.
type tocLoadedMsg struct {
	Entries []deck.TOCEntry
	Err     error
}

// TOCScreen lists a deck's contents.
type TOCScreen struct {
	store  *cache.Cache
	client api.Client
	cfg    *config.Config
	events *bus.Bus

	deckID string
	force  bool

	entries  []deck.TOCEntry
	filtered []deck.TOCEntry
	search   components.TextInput
	selected int
	loading  bool
	errMsg   string
}

var _ screen.Screen = (*TOCScreen)(nil)
var _ screen.KeyHintProvider = (*TOCScreen)(nil)

// New creates a table-of-contents screen for the given deck.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus, deckID string) *TOCScreen {
	return &TOCScreen{
		store:   store,
		client:  client,
		cfg:     cfg,
		events:  events,
		deckID:  deckID,
		search:  components.NewTextInput("Type to filter...", false, 60),
		loading: true,
	}
}

func (s *TOCScreen) Init() tea.Cmd {
	return tea.Batch(s.fetchTOC(), s.search.Init())
}

func (s *TOCScreen) Title() string {
	return "Contents"
}

func (s *TOCScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Drill from here"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TOCScreen) fetchTOC() tea.Cmd {
	store, client, cfg := s.store, s.client, s.cfg
	deckID, force := s.deckID, s.force
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.API.TimeoutSeconds)*time.Second)
		defer cancel()

		key := cache.DeckTOCKey(deckID)
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour

		entries, err := cache.Fetch(ctx, store, key, ttl, force, func(ctx context.Context) ([]deck.TOCEntry, error) {
			return client.TOC(ctx, deckID)
		})
		return tocLoadedMsg{Entries: entries, Err: err}
	}
}

// applyFilter rebuilds the visible list from the search query. Matching is
// case-insensitive over section titles and card fronts.
func (s *TOCScreen) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(s.search.Value()))
	if query == "" {
		s.filtered = s.entries
	} else {
		s.filtered = nil
		for _, e := range s.entries {
			if strings.Contains(strings.ToLower(e.Section), query) ||
				strings.Contains(strings.ToLower(e.Front), query) {
				s.filtered = append(s.filtered, e)
			}
		}
	}
	if s.selected >= len(s.filtered) {
		s.selected = len(s.filtered) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *TOCScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tocLoadedMsg:
		s.loading = false
		s.force = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.entries = msg.Entries
		s.applyFilter()
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.filtered)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.filtered) {
				entry := s.filtered[s.selected]
				store, client, cfg, events, deckID := s.store, s.client, s.cfg, s.events, s.deckID
				return s, func() tea.Msg {
					return router.PushScreenMsg{
						Screen: flip.NewAt(store, client, cfg, events, deckID, entry.Ordinal),
					}
				}
			}
			return s, nil
		}

		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.applyFilter()
		return s, cmd
	}
	return s, nil
}

func (s *TOCScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Fetching contents..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("Could not load the contents")+"\n\n"+
				theme.Body.Render(s.errMsg))
	}

	var b strings.Builder
	b.WriteString(theme.Body.Render("Search: ") + s.search.View() + "\n\n")

	visible := height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}

	lastSection := ""
	for i := start; i < len(s.filtered) && i < start+visible; i++ {
		e := s.filtered[i]
		if e.Section != lastSection {
			b.WriteString(theme.Subtitle.Render(e.Section) + "\n")
			lastSection = e.Section
		}
		line := fmt.Sprintf("  %3d  p.%-4d %s", e.Ordinal, e.Page, e.Front)
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸"+line[1:]) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render(line) + "\n")
		}
	}
	if len(s.filtered) == 0 {
		b.WriteString(theme.Hint.Render("  No entries match."))
	}

	return lipgloss.NewStyle().Padding(1, 4).Width(width).Render(b.String())
}
