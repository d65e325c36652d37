package deck

import (
	"encoding/json"
	"fmt"
)

// Card is a single flashcard as returned by the generation backend.
// The backend owns these records; the client never mutates them.
type Card struct {
	ID string `json:"id"`

	// Front is the prompt text (question or term).
	Front string `json:"front"`

	// Back is the answer text (definition).
	Back string `json:"back"`

	// Section is the title of the document section this card came from.
	// Empty when the backend could not attribute a section.
	Section string `json:"section"`

	// Page is the 1-based page number in the source document, 0 if unknown.
	Page int `json:"page,omitempty"`

	// Ordinal is the 1-based position in document order. 0 means unset;
	// callers fall back to list index + 1.
	Ordinal int `json:"ordinal,omitempty"`

	// Excerpt is a short quoted passage from the source for context display.
	Excerpt string `json:"excerpt,omitempty"`

	// Context is a short tag describing where in the document the card
	// originated.
	Context string `json:"context,omitempty"`

	// Distractors holds backend-authored wrong answers for multiple choice.
	// Usually empty; the client synthesizes distractors from the deck when so.
	Distractors []string `json:"distractors,omitempty"`
}

// cardWire mirrors Card but defers section decoding, since the backend
// serializes section as either a bare string or an object with a title.
type cardWire struct {
	ID          jsonID          `json:"id"`
	Front       string          `json:"front"`
	Back        string          `json:"back"`
	Section     json.RawMessage `json:"section"`
	Page        int             `json:"page"`
	Ordinal     int             `json:"ordinal"`
	Excerpt     string          `json:"excerpt"`
	Context     string          `json:"context"`
	Distractors []string        `json:"distractors"`
}

// jsonID accepts both string and numeric identifiers.
type jsonID string

func (id *jsonID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = jsonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = jsonID(n.String())
	return nil
}

// UnmarshalJSON decodes a card, flattening the section field to its title.
func (c *Card) UnmarshalJSON(b []byte) error {
	var w cardWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	section, err := decodeSection(w.Section)
	if err != nil {
		return fmt.Errorf("decode section for card %s: %w", w.ID, err)
	}

	*c = Card{
		ID:          string(w.ID),
		Front:       w.Front,
		Back:        w.Back,
		Section:     section,
		Page:        w.Page,
		Ordinal:     w.Ordinal,
		Excerpt:     w.Excerpt,
		Context:     w.Context,
		Distractors: w.Distractors,
	}
	return nil
}

// decodeSection accepts null, "Title", or {"title": "Title", ...}.
func decodeSection(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return obj.Title, nil
}

// OrdinalOrIndex returns the card's ordinal, falling back to the 1-based
// position for decks whose backend did not assign ordinals.
func (c Card) OrdinalOrIndex(index int) int {
	if c.Ordinal > 0 {
		return c.Ordinal
	}
	return index + 1
}
