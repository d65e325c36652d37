package api

import (
	"context"
	"encoding/json"
	"io"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// Client is the core abstraction for talking to the deck backend.
// Screens call it through the cache layer rather than directly.
type Client interface {
	// Hand fetches up to n cards from deck deckID in the given order.
	// n <= 0 requests the whole deck.
	Hand(ctx context.Context, deckID string, n int, order Order) ([]deck.Card, error)

	// TOC fetches the table of contents for deck deckID.
	TOC(ctx context.Context, deckID string) ([]deck.TOCEntry, error)

	// Generate uploads a PDF and builds a new deck from it. This is a
	// long-running call; respect the context's deadline.
	Generate(ctx context.Context, req GenerateRequest) (*BuildResult, error)
}

// Order selects how the backend sequences the returned hand.
type Order string

const (
	// OrderDoc returns cards in the order they appear in the source
	// document.
	OrderDoc Order = "doc"

	// OrderRandom shuffles server-side.
	OrderRandom Order = "random"
)

// GenerateRequest describes a deck build job.
type GenerateRequest struct {
	// DeckName labels the new deck.
	DeckName string `validate:"required,min=1,max=120"`

	// CardsWanted is the target card count.
	CardsWanted int `validate:"required,min=1,max=500"`

	// Allocations optionally splits CardsWanted across document sections,
	// serialized as JSON by the transport.
	Allocations map[string]int `validate:"omitempty,dive,min=0"`

	// FileName is the original PDF file name, shown in backend logs.
	FileName string `validate:"required"`

	// File is the PDF content. Read exactly once per request.
	File io.Reader `validate:"required"`
}

// BuildResult is the backend's response to a completed deck build.
type BuildResult struct {
	DeckID       string          `json:"deck_id"`
	DeckName     string          `json:"deck_name,omitempty"`
	CardsCreated int             `json:"cards_created,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	Metrics      json.RawMessage `json:"metrics,omitempty"`
	Template     json.RawMessage `json:"template,omitempty"`
}
