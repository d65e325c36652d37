// Package picker is the per-deck mode menu: flip drill, multiple choice,
// table of contents, study guide.
package picker

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/router"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/screens/flip"
	"github.com/flashdeck/flashdeck/internal/screens/guide"
	"github.com/flashdeck/flashdeck/internal/screens/quiz"
	"github.com/flashdeck/flashdeck/internal/screens/toc"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// PickerScreen chooses a study mode for an open deck.
type PickerScreen struct {
	deckID   string
	deckName string
	count    int
	menu     components.Menu
}

var _ screen.Screen = (*PickerScreen)(nil)

// New creates a mode picker for the given deck. deckName and count feed the
// header and may be zero for decks opened by id.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus, deckID, deckName string, count int) *PickerScreen {
	items := []components.MenuItem{
		{Label: "FLIP DRILL", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: flip.New(store, client, cfg, events, deckID)}
			}
		}},
		{Label: "MULTIPLE CHOICE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quiz.New(store, client, cfg, events, deckID)}
			}
		}},
		{Label: "TABLE OF CONTENTS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: toc.New(store, client, cfg, events, deckID)}
			}
		}},
		{Label: "STUDY GUIDE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: guide.New(store, deckID)}
			}
		}},
	}

	return &PickerScreen{
		deckID:   deckID,
		deckName: deckName,
		count:    count,
		menu:     components.NewMenu(items),
	}
}

func (s *PickerScreen) Init() tea.Cmd {
	deckID, name, count := s.deckID, s.deckName, s.count
	return func() tea.Msg {
		return screen.SetDeckMsg{DeckID: deckID, Name: name, CardCount: count}
	}
}

func (s *PickerScreen) Title() string {
	return "Study"
}

func (s *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *PickerScreen) View(width, height int) string {
	title := theme.Title.Render("How do you want to study?")
	subtitle := ""
	if s.deckName != "" {
		subtitle = "\n" + theme.Subtitle.Render(s.deckName)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		title+subtitle+"\n\n"+s.menu.View())
}
