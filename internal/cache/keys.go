package cache

import "fmt"

// Canonical cache keys. Screens requesting the same logical data must build
// keys through these constructors so hits occur across screens.

// DeckHandKey keys a deck's card list for a given ordering and count.
// Distinct query shapes get distinct entries.
func DeckHandKey(deckID, order, n string) string {
	return fmt.Sprintf("deck:%s:hand:%s:%s", deckID, order, n)
}

// DeckTOCKey keys a deck's table of contents.
func DeckTOCKey(deckID string) string {
	return fmt.Sprintf("deck:%s:toc", deckID)
}

// deckTemplateKey keys a deck's cached study template.
func deckTemplateKey(deckID string) string {
	return fmt.Sprintf("deck:%s:template", deckID)
}
