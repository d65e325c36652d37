// Package distractor selects plausible wrong answers for multiple-choice
// questions from the cards of a deck.
package distractor

import (
	"strings"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// Normalize trims an answer and collapses internal whitespace runs to a
// single space. All answer comparisons happen on normalized values.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// equalFold compares two normalized answers case-insensitively.
func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Pick returns up to count wrong-answer strings for current, drawn from
// cards. Cards in the same section as current are preferred; the
// other-section pool tops up the remainder. The correct answer never
// appears, results are mutually distinct (case-insensitive), and decks too
// small to supply count unique answers yield fewer; callers must tolerate a
// short result.
//
// Pick is pure: the same inputs always produce the same output. Variety
// across renders comes from shuffling the rendered options, or from an
// upstream shuffle of the card pool itself.
func Pick(current deck.Card, cards []deck.Card, count int) []string {
	correct := Normalize(current.Back)
	if correct == "" || count <= 0 {
		return nil
	}

	var sameSection, otherSection []deck.Card
	for _, c := range cards {
		if c.ID == current.ID || Normalize(c.Back) == "" {
			continue
		}
		if c.Section == current.Section {
			sameSection = append(sameSection, c)
		} else {
			otherSection = append(otherSection, c)
		}
	}

	answers := make([]string, 0, count)
	taken := func(a string) bool {
		if equalFold(a, correct) {
			return true
		}
		for _, prev := range answers {
			if equalFold(a, prev) {
				return true
			}
		}
		return false
	}

	for _, pool := range [][]deck.Card{sameSection, otherSection} {
		for _, c := range pool {
			if len(answers) == count {
				return answers
			}
			a := Normalize(c.Back)
			if taken(a) {
				continue
			}
			answers = append(answers, a)
		}
	}
	return answers
}

// TopUp extends have with pool-picked distractors until count is reached,
// preserving the no-duplicate and never-the-correct-answer guarantees. It is
// used when the backend authored distractors on a card but supplied fewer
// than the quiz needs.
func TopUp(have []string, current deck.Card, cards []deck.Card, count int) []string {
	correct := Normalize(current.Back)

	out := make([]string, 0, count)
	for _, d := range have {
		if len(out) == count {
			return out
		}
		a := Normalize(d)
		if a == "" || equalFold(a, correct) || containsFold(out, a) {
			continue
		}
		out = append(out, a)
	}

	for _, a := range Pick(current, cards, count) {
		if len(out) == count {
			break
		}
		if containsFold(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if equalFold(v, s) {
			return true
		}
	}
	return false
}
