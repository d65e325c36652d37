package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/flashdeck/flashdeck/internal/ui/theme"
)

// CardFace renders one side of a flashcard as a bordered panel.
type CardFace struct {
	// Text is the face content (front prompt or back answer).
	Text string

	// Section labels the card's document section, shown above the text.
	Section string

	// Back is true when showing the answer side.
	Back bool

	// Position and Total locate the card in the hand, e.g. "3 / 40".
	Position int
	Total    int

	Width int
}

// View renders the card face.
func (c CardFace) View() string {
	inner := c.Width - 6
	if inner < 20 {
		inner = 20
	}

	var header string
	if c.Section != "" {
		header = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(c.Section) + "\n\n"
	}

	textStyle := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(inner).
		Align(lipgloss.Center)
	if c.Back {
		textStyle = textStyle.Foreground(theme.Primary).Bold(true)
	}

	footer := ""
	if c.Total > 0 {
		side := "front"
		if c.Back {
			side = "back"
		}
		footer = "\n\n" + lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d / %d · %s", c.Position, c.Total, side))
	}

	border := theme.Border
	if c.Back {
		border = theme.Primary
	}

	return lipgloss.NewStyle().
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(c.Width - 2).
		Align(lipgloss.Center).
		Render(header + textStyle.Render(c.Text) + footer)
}
