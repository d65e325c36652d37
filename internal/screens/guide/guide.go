// Package guide renders the cached study template for a deck: sections with
// page ranges, and each section's terms with definitions.
package guide

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// GuideScreen is a read-only template viewer. The template is written to
// the cache when the deck is built; no network fetch happens here.
type GuideScreen struct {
	deckID   string
	template *deck.Template
	scroll   int
}

var _ screen.Screen = (*GuideScreen)(nil)
var _ screen.KeyHintProvider = (*GuideScreen)(nil)

// New loads the deck's template from the cache.
func New(store *cache.Cache, deckID string) *GuideScreen {
	tpl, _ := store.LoadTemplate(deckID)
	return &GuideScreen{deckID: deckID, template: tpl}
}

func (s *GuideScreen) Init() tea.Cmd {
	return nil
}

func (s *GuideScreen) Title() string {
	return "Study Guide"
}

func (s *GuideScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Close"},
	}
}

func (s *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *GuideScreen) View(width, height int) string {
	if s.template == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No study guide is cached for this deck.\nBuild the deck again to generate one."))
	}

	lines := s.render(width)

	if s.scroll > len(lines)-1 {
		s.scroll = len(lines) - 1
	}
	end := s.scroll + height - 2
	if end > len(lines) {
		end = len(lines)
	}
	visible := lines[s.scroll:end]

	return lipgloss.NewStyle().Padding(1, 4).Render(strings.Join(visible, "\n"))
}

// render flattens the template into styled lines for scrolling.
func (s *GuideScreen) render(width int) []string {
	var lines []string

	lines = append(lines,
		theme.Title.Render(s.template.Title),
		theme.Subtitle.Render(fmt.Sprintf("%d sections · %d terms",
			len(s.template.Sections), s.template.ItemCount())),
		"")

	defWidth := width - 16
	if defWidth < 30 {
		defWidth = 30
	}
	defStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(defWidth)

	for _, section := range s.template.Sections {
		header := section.Title
		if section.PageStart > 0 {
			header = fmt.Sprintf("%s  (pp. %d-%d)", section.Title, section.PageStart, section.PageEnd)
		}
		lines = append(lines, theme.Selected.Render(header))

		for _, item := range section.Items {
			term := theme.Body.Bold(true).Render(fmt.Sprintf("  %3d. %s", item.Ordinal, item.Term))
			lines = append(lines, term)
			for _, defLine := range strings.Split(defStyle.Render(item.Definition), "\n") {
				lines = append(lines, "       "+defLine)
			}
		}
		lines = append(lines, "")
	}

	return lines
}
