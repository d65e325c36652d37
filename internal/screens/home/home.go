// Package home is the entry screen: resume the last deck, open a deck by
// id, build a new one, or clear the cache.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/router"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/screens/picker"
	"github.com/flashdeck/flashdeck/internal/screens/upload"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// HomeScreen is the application's landing screen.
type HomeScreen struct {
	store  *cache.Cache
	client api.Client
	cfg    *config.Config
	events *bus.Bus

	menu     components.Menu
	lastDeck *cache.LastDeck

	// openMode switches the screen to the deck-id prompt.
	openMode  bool
	deckInput components.TextInput

	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. The resume entry appears only when a
// recent build is still in the cache.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus) *HomeScreen {
	s := &HomeScreen{
		store:     store,
		client:    client,
		cfg:       cfg,
		events:    events,
		deckInput: components.NewTextInput("Deck id...", false, 60),
	}

	if last, ok := store.LoadLastDeck(); ok {
		s.lastDeck = &last
	}

	var items []components.MenuItem
	if s.lastDeck != nil {
		last := *s.lastDeck
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("RESUME  %s", strings.ToUpper(last.Name)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: picker.New(store, client, cfg, events, last.DeckID, last.Name, last.CardsCount),
					}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "OPEN DECK BY ID", Action: func() tea.Cmd {
			s.openMode = true
			return s.deckInput.Init()
		}},
		components.MenuItem{Label: "BUILD FROM PDF", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: upload.New(store, client, cfg, events)}
			}
		}},
		components.MenuItem{Label: "CLEAR CACHE", Action: func() tea.Cmd {
			store.Clear()
			s.lastDeck = nil
			s.notice = "Cache cleared."
			return nil
		}},
		components.MenuItem{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	s.menu = components.NewMenu(items)

	return s
}

func (s *HomeScreen) Init() tea.Cmd {
	// Clears any stale deck context in the header.
	return func() tea.Msg {
		return screen.SetDeckMsg{}
	}
}

func (s *HomeScreen) Title() string {
	return "Home"
}

func (s *HomeScreen) KeyHints() []layout.KeyHint {
	if s.openMode {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Open"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.openMode {
		switch kmsg.String() {
		case "esc":
			s.openMode = false
			return s, nil
		case "enter":
			deckID := strings.TrimSpace(s.deckInput.Value())
			if deckID == "" {
				return s, nil
			}
			s.openMode = false
			store, client, cfg, events := s.store, s.client, s.cfg, s.events
			return s, func() tea.Msg {
				return router.PushScreenMsg{
					Screen: picker.New(store, client, cfg, events, deckID, "", 0),
				}
			}
		}
		var cmd tea.Cmd
		s.deckInput, cmd = s.deckInput.Update(msg)
		return s, cmd
	}

	s.notice = ""
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *HomeScreen) View(width, height int) string {
	title := theme.Title.Render("F L A S H D E C K")
	subtitle := theme.Subtitle.Render("Turn any PDF into a study deck")

	var body string
	switch {
	case s.openMode:
		body = theme.Body.Render("Deck id: ") + s.deckInput.View()
	default:
		body = s.menu.View()
	}

	sections := []string{title, subtitle, "", body}

	if s.lastDeck != nil && !s.openMode {
		sections = append(sections, "",
			theme.Hint.Render(fmt.Sprintf("Last deck: %s (%d cards, built %s)",
				s.lastDeck.Name, s.lastDeck.CardsCount,
				s.lastDeck.BuiltAt.Format("Jan 2"))))
	}
	if s.notice != "" {
		sections = append(sections, "", theme.Hint.Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
