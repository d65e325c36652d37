package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/router"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/screens/guide"
	"github.com/flashdeck/flashdeck/internal/screens/home"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
)

// Options carries the dependencies the UI needs.
type Options struct {
	Store  *cache.Cache
	Client api.Client
	Config *config.Config
	Events *bus.Bus
}

// openGuideMsg bridges bus events into the Bubble Tea loop.
type openGuideMsg struct {
	deckID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int

	deckName  string
	cardCount int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Store, opts.Client, opts.Config, opts.Events)
	return AppModel{
		opts:   opts,
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.SetDeckMsg:
		m.deckName = msg.Name
		m.cardCount = msg.CardCount
		return m, nil

	case openGuideMsg:
		// The guide is an overlay; never stack two of them.
		if _, ok := m.router.Active().(*guide.GuideScreen); ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return router.PushScreenMsg{Screen: guide.New(m.opts.Store, msg.deckID)}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			// The root screen gets to handle esc itself.
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.deckName, m.cardCount, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. Bus events published by any screen
// are forwarded into the program loop.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	unsubscribe := opts.Events.Subscribe(func(e bus.Event) {
		if e.Kind == bus.EventOpenGuide {
			p.Send(openGuideMsg{deckID: e.DeckID})
		}
	})
	defer unsubscribe()

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
