package flip

import (
	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/study"
	"github.com/flashdeck/flashdeck/internal/ui/components"
	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

func cardFace(current deck.Card, text string, drill *study.Drill, width int) string {
	cw := width * 2 / 3
	if cw < 40 {
		cw = 40
	}
	face := components.CardFace{
		Text:     text,
		Section:  current.Section,
		Back:     drill.Flipped,
		Position: drill.Index + 1,
		Total:    len(drill.Cards),
		Width:    cw,
	}
	return face.View()
}

func centerBlock(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

func renderCentered(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Hint.Render(msg))
}

func renderError(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Incorrect.Render("Could not load the deck")+"\n\n"+
			theme.Body.Render(msg)+"\n\n"+
			theme.Hint.Render("Press r to retry or Esc to go back"))
}
