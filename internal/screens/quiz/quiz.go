// Package quiz is the multiple-choice drill: one question per card, three
// distractors drawn from the rest of the hand.
package quiz

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/screen"
	"github.com/flashdeck/flashdeck/internal/study"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/layout"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// handLoadedMsg is sent when the deck's hand has been fetched.
type handLoadedMsg struct {
	Cards []deck.Card
	Err   error
}

// QuizScreen runs a multiple-choice drill over one hand.
type QuizScreen struct {
	store  *cache.Cache
	client api.Client
	cfg    *config.Config
	events *bus.Bus

	deckID string
	force  bool

	drill   *study.Drill
	mc      components.MultiChoice
	graded  bool
	loading bool
	errMsg  string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a multiple-choice drill over the given deck.
func New(store *cache.Cache, client api.Client, cfg *config.Config, events *bus.Bus, deckID string) *QuizScreen {
	return &QuizScreen{
		store:   store,
		client:  client,
		cfg:     cfg,
		events:  events,
		deckID:  deckID,
		loading: true,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.fetchHand()
}

func (s *QuizScreen) Title() string {
	return "Multiple Choice"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.graded {
		return []layout.KeyHint{
			{Key: "any key", Description: "Next question"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "g", Description: "Guide"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) fetchHand() tea.Cmd {
	store, client, cfg := s.store, s.client, s.cfg
	deckID, force := s.deckID, s.force
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.API.TimeoutSeconds)*time.Second)
		defer cancel()

		n := cfg.Study.HandSize
		nKey := "all"
		if n > 0 {
			nKey = strconv.Itoa(n)
		}
		key := cache.DeckHandKey(deckID, string(api.OrderDoc), nKey)
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour

		cards, err := cache.Fetch(ctx, store, key, ttl, force, func(ctx context.Context) ([]deck.Card, error) {
			return client.Hand(ctx, deckID, n, api.OrderDoc)
		})
		return handLoadedMsg{Cards: cards, Err: err}
	}
}

// nextQuestion builds the options for the card under the cursor.
func (s *QuizScreen) nextQuestion() {
	current, ok := s.drill.Current()
	if !ok {
		return
	}
	q := study.BuildQuestion(current, s.drill.Cards)
	s.mc = components.NewMultiChoice(q.Prompt, q.Options, q.CorrectIndex)
	s.graded = false
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case handLoadedMsg:
		s.loading = false
		s.force = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.drill = study.NewDrill(msg.Cards)
		s.nextQuestion()
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if key := msg.String(); key == "r" && !s.graded {
			s.loading = true
			s.force = true
			return s, s.fetchHand()
		}
		if s.drill == nil {
			return s, nil
		}
		if _, ok := s.drill.Current(); !ok {
			return s, nil
		}

		if s.graded {
			// Any key advances to the next card.
			s.drill.Next()
			s.nextQuestion()
			return s, nil
		}

		if msg.String() == "g" {
			s.events.Publish(bus.Event{Kind: bus.EventOpenGuide, DeckID: s.deckID})
			return s, nil
		}

		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		if s.mc.Submitted {
			s.graded = true
			s.drill.Grade(s.mc.IsCorrect())
		}
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Fetching cards..."))
	}
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("Could not load the deck")+"\n\n"+
				theme.Body.Render(s.errMsg)+"\n\n"+
				theme.Hint.Render("Press r to retry or Esc to go back"))
	}
	if _, ok := s.drill.Current(); !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This deck has no cards."))
	}

	summary := s.drill.Summarize()
	score := theme.Subtitle.Render(fmt.Sprintf(
		"Card %d of %d   ·   %d answered, %d correct",
		s.drill.Index+1, len(s.drill.Cards), summary.Graded, summary.Correct))

	body := s.mc.View()
	if s.graded {
		verdict := theme.Incorrect.Render("Not quite.")
		if s.mc.IsCorrect() {
			verdict = theme.Correct.Render("Correct!")
		}
		body += "\n" + verdict
	}

	panel := theme.Card.Width(min(width-8, 90)).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		score+"\n\n"+panel)
}
