// Package study holds the runtime state of a drill over a fetched hand of
// cards. Screens own rendering and input; this package owns traversal,
// flip state, and the end-of-run summary.
package study

import (
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// Drill tracks one pass through a hand of cards.
type Drill struct {
	// SessionID is the UUID for this drill run.
	SessionID string

	// Cards is the hand under study. Never mutated by the drill.
	Cards []deck.Card

	// Index is the position of the current card.
	Index int

	// Flipped is true when the current card shows its back.
	Flipped bool

	// StartTime is when the drill began.
	StartTime time.Time

	seen    map[string]bool
	correct int
	graded  int

	now func() time.Time
}

// NewDrill starts a drill over cards, positioned at the first card,
// front showing.
func NewDrill(cards []deck.Card) *Drill {
	d := &Drill{
		SessionID: uuid.NewString(),
		Cards:     cards,
		seen:      make(map[string]bool),
		now:       time.Now,
	}
	d.StartTime = d.now()
	d.markSeen()
	return d
}

// NewDrillAt starts a drill positioned at the card with the given ordinal,
// falling back to the first card when no ordinal matches.
func NewDrillAt(cards []deck.Card, ordinal int) *Drill {
	d := NewDrill(cards)
	for i, c := range cards {
		if c.OrdinalOrIndex(i) == ordinal {
			d.Index = i
			break
		}
	}
	d.markSeen()
	return d
}

// Current returns the card under the cursor, or ok=false for an empty hand.
func (d *Drill) Current() (deck.Card, bool) {
	if len(d.Cards) == 0 {
		return deck.Card{}, false
	}
	return d.Cards[d.Index], true
}

// Next advances to the following card, wrapping past the end, and resets
// the flip.
func (d *Drill) Next() {
	if len(d.Cards) == 0 {
		return
	}
	d.Index = (d.Index + 1) % len(d.Cards)
	d.Flipped = false
	d.markSeen()
}

// Prev moves to the preceding card, wrapping before the start, and resets
// the flip.
func (d *Drill) Prev() {
	if len(d.Cards) == 0 {
		return
	}
	d.Index = (d.Index - 1 + len(d.Cards)) % len(d.Cards)
	d.Flipped = false
	d.markSeen()
}

// Flip toggles front/back on the current card.
func (d *Drill) Flip() {
	if len(d.Cards) == 0 {
		return
	}
	d.Flipped = !d.Flipped
}

// Grade records a graded answer for the current card. Used by the
// multiple-choice mode; the flip mode never grades.
func (d *Drill) Grade(correct bool) {
	if len(d.Cards) == 0 {
		return
	}
	d.graded++
	if correct {
		d.correct++
	}
}

// Seen returns how many distinct cards have been visited.
func (d *Drill) Seen() int {
	return len(d.seen)
}

func (d *Drill) markSeen() {
	if c, ok := d.Current(); ok {
		d.seen[c.ID] = true
	}
}

// Summary is the end-of-run report.
type Summary struct {
	SessionID string
	Duration  time.Duration
	DeckSize  int
	Seen      int
	Graded    int
	Correct   int
	Accuracy  float64
}

// Summarize builds the report for the drill so far.
func (d *Drill) Summarize() Summary {
	s := Summary{
		SessionID: d.SessionID,
		Duration:  d.now().Sub(d.StartTime),
		DeckSize:  len(d.Cards),
		Seen:      len(d.seen),
		Graded:    d.graded,
		Correct:   d.correct,
	}
	if d.graded > 0 {
		s.Accuracy = float64(d.correct) / float64(d.graded)
	}
	return s
}
