package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/cache"
)

var (
	uploadName  string
	uploadCards int
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Build a deck from a PDF without opening the TUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, args[0])
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Deck name (defaults to the file name)")
	uploadCmd.Flags().IntVar(&uploadCards, "cards", 0, "Target card count (defaults to study.cards_wanted)")
}

func runUpload(cmd *cobra.Command, path string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openCache(cmd, cfg, logger)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := uploadName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	cards := uploadCards
	if cards <= 0 {
		cards = cfg.Study.CardsWanted
	}

	ctx, cancel := context.WithTimeout(cmd.Context(),
		time.Duration(cfg.API.GenerateTimeoutSeconds)*time.Second)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Building %q (%d cards) from %s...\n", name, cards, path)
	start := time.Now()
	result, err := buildClient(cfg, logger).Generate(ctx, api.GenerateRequest{
		DeckName:    name,
		CardsWanted: cards,
		FileName:    filepath.Base(path),
		File:        f,
	})
	if err != nil {
		return fmt.Errorf("generate deck: %w", err)
	}

	store.RecordBuild(cache.BuildRecord{
		DeckID:       result.DeckID,
		DeckName:     result.DeckName,
		FallbackName: name,
		CardsCreated: result.CardsCreated,
		Elapsed:      time.Since(start),
		Metrics:      result.Metrics,
		Template:     result.Template,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Deck %s ready: %d cards in %s\n",
		result.DeckID, result.CardsCreated, time.Since(start).Round(time.Second))
	for _, w := range result.Warnings {
		fmt.Fprintln(out, "warning:", w)
	}
	return nil
}
