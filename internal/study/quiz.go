package study

import (
	"strings"

	"github.com/flashdeck/flashdeck/internal/deck"
	"github.com/flashdeck/flashdeck/internal/distractor"
)

// optionsWanted is the target size of a multiple-choice option list,
// correct answer included.
const optionsWanted = 4

// Question is one multiple-choice prompt built from the current card.
type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
}

// BuildQuestion turns the current card into a multiple-choice question.
// Authored distractors on the card are used first; the pool tops up the
// rest. Small decks can yield fewer than four options, down to a single
// correct one. The option order is shuffled per call.
func BuildQuestion(current deck.Card, cards []deck.Card) Question {
	wrong := distractor.TopUp(current.Distractors, current, cards, optionsWanted-1)

	options := distractor.Shuffle(append([]string{current.Back}, wrong...))

	correct := 0
	for i, opt := range options {
		if strings.EqualFold(distractor.Normalize(opt), distractor.Normalize(current.Back)) {
			correct = i
			break
		}
	}

	return Question{
		Prompt:       current.Front,
		Options:      options,
		CorrectIndex: correct,
	}
}
