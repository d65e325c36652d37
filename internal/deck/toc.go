package deck

// TOCEntry is one row of a deck's table of contents: enough to render a
// navigable summary and jump to the matching card by ordinal.
type TOCEntry struct {
	Ordinal int    `json:"ordinal"`
	Page    int    `json:"page,omitempty"`
	Section string `json:"section,omitempty"`
	Front   string `json:"front"`
}
