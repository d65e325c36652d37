package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "Turn PDFs into flashcard decks and drill them in the terminal",
	Long: "Flashdeck is a terminal study app. Upload a PDF to the deck backend,\n" +
		"then drill the generated flashcards with flip and multiple-choice modes.\n" +
		"Fetched decks are cached locally so drills work offline until the cache expires.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("api.base_url", "", "Deck backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite cache file (overrides FLASHDECK_DB env var)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
