package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/deck"
)

var tocForce bool

var tocCmd = &cobra.Command{
	Use:   "toc <deck-id>",
	Short: "Print a deck's table of contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTOC(cmd, args[0])
	},
}

func init() {
	tocCmd.Flags().BoolVar(&tocForce, "refresh", false, "Bypass the cache and refetch from the backend")
}

func runTOC(cmd *cobra.Command, deckID string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openCache(cmd, cfg, logger)
	if err != nil {
		return err
	}
	client := buildClient(cfg, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(),
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	defer cancel()

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	entries, err := cache.Fetch(ctx, store, cache.DeckTOCKey(deckID), ttl, tocForce,
		func(ctx context.Context) ([]deck.TOCEntry, error) {
			return client.TOC(ctx, deckID)
		})
	if err != nil {
		return fmt.Errorf("fetch table of contents: %w", err)
	}

	out := cmd.OutOrStdout()
	section := ""
	for _, e := range entries {
		if e.Section != "" && e.Section != section {
			section = e.Section
			fmt.Fprintf(out, "\n%s\n", section)
		}
		if e.Page > 0 {
			fmt.Fprintf(out, "  %3d. %s (p. %d)\n", e.Ordinal, e.Front, e.Page)
		} else {
			fmt.Fprintf(out, "  %3d. %s\n", e.Ordinal, e.Front)
		}
	}
	fmt.Fprintf(out, "\n%d cards\n", len(entries))
	return nil
}
