// Package flip is the card-flipping drill: front, flip, next, around the
// deck with wraparound.
package flip

import (
	"context"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/study"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
)

// handLoadedMsg is sent when the deck's hand has been fetched.
type handLoadedMsg struct {
	Cards []deck.Card
	Err   error
}

// FlipScreen drills one hand of cards.
type FlipScreen struct {
	store  *cache.Cache
	client api.Client
	cfg    *config.Config
	events *bus.Bus

	deckID       string
	startOrdinal int
	force        bool

	drill   *study.Drill
	loading bool
	errMsg  string
}

var _ screen.Screen = (*FlipScreen)(nil)
var _ screen.KeyHintProvider = (*FlipScreen)(nil)

// New creates a flip drill over the given deck.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus, deckID string) *FlipScreen {
	return &FlipScreen{
		store:   store,
		client:  client,
		cfg:     cfg,
		events:  events,
		deckID:  deckID,
		loading: true,
	}
}

// NewAt creates a flip drill positioned at the card with the given ordinal.
func NewAt(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus, deckID string, ordinal int) *FlipScreen {
	s := New(store, client, cfg, events, deckID)
	s.startOrdinal = ordinal
	return s
}

func (s *FlipScreen) Init() tea.Cmd {
	return s.fetchHand()
}

func (s *FlipScreen) Title() string {
	return "Flip Drill"
}

func (s *FlipScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "g", Description: "Guide"},
		{Key: "r", Description: "Refetch"},
		{Key: "Esc", Description: "Back"},
	}
}

// fetchHand loads the hand through the cache; the backend is only called
// on a miss or a forced refresh.
func (s *FlipScreen) fetchHand() tea.Cmd {
	store, client, cfg := s.store, s.client, s.cfg
	deckID, force := s.deckID, s.force
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.API.TimeoutSeconds)*time.Second)
		defer cancel()

		n := cfg.Study.HandSize
		key := cache.DeckHandKey(deckID, string(api.OrderDoc), handCount(n))
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour

		cards, err := cache.Fetch(ctx, store, key, ttl, force, func(ctx context.Context) ([]deck.Card, error) {
			return client.Hand(ctx, deckID, n, api.OrderDoc)
		})
		return handLoadedMsg{Cards: cards, Err: err}
	}
}

// handCount is the key segment for the requested hand size.
func handCount(n int) string {
	if n <= 0 {
		return "all"
	}
	return strconv.Itoa(n)
}

func (s *FlipScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case handLoadedMsg:
		s.loading = false
		s.force = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		if s.startOrdinal > 0 {
			s.drill = study.NewDrillAt(msg.Cards, s.startOrdinal)
		} else {
			s.drill = study.NewDrill(msg.Cards)
		}
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "r":
			s.loading = true
			s.force = true
			return s, s.fetchHand()
		}
		if s.drill == nil {
			return s, nil
		}
		switch msg.String() {
		case " ", "space", "enter":
			s.drill.Flip()
		case "right", "n", "l":
			s.drill.Next()
		case "left", "p", "h":
			s.drill.Prev()
		case "g":
			s.events.Publish(bus.Event{Kind: bus.EventOpenGuide, DeckID: s.deckID})
		}
	}
	return s, nil
}

func (s *FlipScreen) View(width, height int) string {
	if s.loading {
		return renderCentered(width, height, "Fetching cards...")
	}
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}

	current, ok := s.drill.Current()
	if !ok {
		return renderCentered(width, height, "This deck has no cards.")
	}

	text := current.Front
	if s.drill.Flipped {
		text = current.Back
	}

	face := cardFace(current, text, s.drill, width)
	return centerBlock(face, width, height)
}
