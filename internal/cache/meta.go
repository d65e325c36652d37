package cache

import (
	"encoding/json"
	"time"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// lastDeckKey is the singleton slot recording the most recent successful
// deck build, read on cold start to offer a "resume" prompt.
const lastDeckKey = "lastDeckMeta"

// lastDeckTTL keeps the resume prompt alive for a month; a deck the user has
// not touched for that long is not worth resuming.
const lastDeckTTL = 30 * 24 * time.Hour

// LastDeck is the metadata written once per successful deck build.
type LastDeck struct {
	DeckID     string          `json:"deck_id"`
	Name       string          `json:"name,omitempty"`
	CardsCount int             `json:"cards_count,omitempty"`
	BuildMs    int64           `json:"build_ms,omitempty"`
	BuiltAt    time.Time       `json:"built_at"`
	Metrics    json.RawMessage `json:"metrics,omitempty"`
}

// SaveLastDeck records meta as the most recent build. Entries without a
// deck id are ignored.
func (c *Cache) SaveLastDeck(meta LastDeck) {
	if meta.DeckID == "" {
		return
	}
	c.Set(lastDeckKey, meta, lastDeckTTL)
}

// BuildRecord captures the outcome of a finished deck build.
type BuildRecord struct {
	DeckID       string
	DeckName     string
	FallbackName string
	CardsCreated int
	Elapsed      time.Duration
	Metrics      json.RawMessage
	Template     json.RawMessage
}

// RecordBuild persists a finished build: the resume slot, and the study
// template when the backend returned one. The backend is free to omit the
// deck name from its response; FallbackName covers that case. Template
// payloads that fail schema validation are dropped, not cached.
func (c *Cache) RecordBuild(r BuildRecord) {
	name := r.DeckName
	if name == "" {
		name = r.FallbackName
	}
	c.SaveLastDeck(LastDeck{
		DeckID:     r.DeckID,
		Name:       name,
		CardsCount: r.CardsCreated,
		BuildMs:    r.Elapsed.Milliseconds(),
		BuiltAt:    c.now(),
		Metrics:    r.Metrics,
	})

	if len(r.Template) == 0 {
		return
	}
	tpl, err := deck.ParseTemplate(r.Template)
	if err != nil {
		c.logger.Debug("build template rejected", "deck_id", r.DeckID, "error", err)
		return
	}
	c.SaveTemplate(r.DeckID, tpl)
}

// LoadLastDeck returns the most recent build metadata, or ok=false when the
// slot is empty or expired. A stale entry is deleted on the way out so the
// next cold start skips the read.
func (c *Cache) LoadLastDeck() (LastDeck, bool) {
	env, state := c.read(lastDeckKey)
	switch state {
	case entryExpired:
		c.Del(lastDeckKey)
		return LastDeck{}, false
	case entryAbsent:
		return LastDeck{}, false
	}

	var meta LastDeck
	if err := json.Unmarshal(env.Data, &meta); err != nil {
		c.logger.Debug("last deck: stale payload shape", "error", err)
		return LastDeck{}, false
	}
	return meta, true
}

// DelLastDeck clears the resume slot.
func (c *Cache) DelLastDeck() {
	c.Del(lastDeckKey)
}

// SaveTemplate persists a deck's study template. Templates do not expire;
// they live until explicitly deleted or the namespace is cleared.
func (c *Cache) SaveTemplate(deckID string, tpl *deck.Template) {
	if deckID == "" || tpl == nil {
		return
	}
	c.Set(deckTemplateKey(deckID), tpl, 0)
}

// LoadTemplate returns the cached template for deckID, if any.
func (c *Cache) LoadTemplate(deckID string) (*deck.Template, bool) {
	var tpl deck.Template
	if !c.GetInto(deckTemplateKey(deckID), &tpl) {
		return nil, false
	}
	return &tpl, true
}

// DelTemplate removes the cached template for deckID.
func (c *Cache) DelTemplate(deckID string) {
	c.Del(deckTemplateKey(deckID))
}
