package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// LoggingClient is a decorator that records every backend call with a
// request id, latency, and outcome.
type LoggingClient struct {
	inner  Client
	logger *slog.Logger
}

// WithLogging wraps a Client with structured request logging.
func WithLogging(c Client, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingClient{inner: c, logger: logger}
}

func (l *LoggingClient) Hand(ctx context.Context, deckID string, n int, order Order) ([]deck.Card, error) {
	log, start := l.begin("hand", "deck_id", deckID, "n", n, "order", string(order))
	cards, err := l.inner.Hand(ctx, deckID, n, order)
	l.finish(log, start, err, "cards", len(cards))
	return cards, err
}

func (l *LoggingClient) TOC(ctx context.Context, deckID string) ([]deck.TOCEntry, error) {
	log, start := l.begin("toc", "deck_id", deckID)
	entries, err := l.inner.TOC(ctx, deckID)
	l.finish(log, start, err, "entries", len(entries))
	return entries, err
}

func (l *LoggingClient) Generate(ctx context.Context, req GenerateRequest) (*BuildResult, error) {
	log, start := l.begin("generate", "deck_name", req.DeckName, "cards_wanted", req.CardsWanted)
	result, err := l.inner.Generate(ctx, req)
	if result != nil {
		l.finish(log, start, err, "deck_id", result.DeckID, "cards_created", result.CardsCreated)
	} else {
		l.finish(log, start, err)
	}
	return result, err
}

func (l *LoggingClient) begin(op string, args ...any) (*slog.Logger, time.Time) {
	log := l.logger.With(append([]any{"op", op, "request_id", uuid.NewString()}, args...)...)
	log.Debug("backend call")
	return log, time.Now()
}

func (l *LoggingClient) finish(log *slog.Logger, start time.Time, err error, args ...any) {
	args = append(args, "latency_ms", time.Since(start).Milliseconds())
	if err != nil {
		log.Warn("backend call failed", append(args, "error", err)...)
		return
	}
	log.Debug("backend call done", args...)
}
