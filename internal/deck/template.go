package deck

import "sort"

// Template is the structured section/item breakdown of a deck, used for the
// read-only study guide view. It is produced by the backend at build time and
// cached per deck; the flat TOC mirror exists for quick lookups without
// walking the section tree.
type Template struct {
	Version  int               `json:"version"`
	Title    string            `json:"title"`
	Sections []TemplateSection `json:"sections"`
	TOC      []TemplateTOCRef  `json:"toc"`
}

// TemplateSection is one document section with its ordered study items.
type TemplateSection struct {
	Title     string         `json:"title"`
	PageStart int            `json:"page_start"`
	PageEnd   int            `json:"page_end"`
	Items     []TemplateItem `json:"items"`
}

// TemplateItem is a single term/definition pair within a section.
type TemplateItem struct {
	Term          string `json:"term"`
	Definition    string `json:"definition"`
	SourceExcerpt string `json:"source_excerpt,omitempty"`
	Page          int    `json:"page"`
	Ordinal       int    `json:"ordinal"`
}

// TemplateTOCRef is the flat mirror of a section for quick lookup.
type TemplateTOCRef struct {
	Title        string `json:"title"`
	PageStart    int    `json:"page_start"`
	PageEnd      int    `json:"page_end"`
	OrdinalFirst int    `json:"ordinal_first"`
}

// Normalize enforces the template invariants in place: items within each
// section sorted by ascending page, ordinals globally increasing across the
// whole template, and the TOC mirror rebuilt from the sections. Ordinals are
// assigned only when the backend left them unset; already-assigned ordinals
// are never renumbered.
func (t *Template) Normalize() {
	for si := range t.Sections {
		items := t.Sections[si].Items
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Page < items[j].Page
		})
	}

	if t.needsOrdinals() {
		next := 1
		for si := range t.Sections {
			for ii := range t.Sections[si].Items {
				t.Sections[si].Items[ii].Ordinal = next
				next++
			}
		}
	}

	t.TOC = t.TOC[:0]
	for _, s := range t.Sections {
		ref := TemplateTOCRef{
			Title:     s.Title,
			PageStart: s.PageStart,
			PageEnd:   s.PageEnd,
		}
		if len(s.Items) > 0 {
			ref.OrdinalFirst = s.Items[0].Ordinal
		}
		t.TOC = append(t.TOC, ref)
	}
}

// needsOrdinals reports whether any item is missing an ordinal.
func (t *Template) needsOrdinals() bool {
	for _, s := range t.Sections {
		for _, it := range s.Items {
			if it.Ordinal == 0 {
				return true
			}
		}
	}
	return false
}

// ItemCount returns the total number of study items across all sections.
func (t *Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}
