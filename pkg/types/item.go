// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the literature
// acquisition pipeline: the normalized item model produced by source
// clients, the per-item artifact outcome, the batch run summary, and the
// configuration structs consumed by each stage.
package types

// Sentinel values substituted when a source payload lacks a field. Every
// source client normalizes into these rather than leaving fields empty, so
// downstream rendering never has to special-case missing metadata.
const (
	UnknownTitle   = "unknown title"
	UnknownAuthors = "unknown authors"
	NoAbstract     = "no abstract"
	UnknownDate    = "unknown date"
	Uncategorized  = "uncategorized"
)

// LiteratureItem is the normalized record for one discovered paper,
// independent of which source client found it. Items are constructed once
// per search response and immutable afterward.
type LiteratureItem struct {
	// Title is the paper title, or UnknownTitle when absent.
	Title string `json:"title" yaml:"title"`

	// Authors is a comma-joined display list, or UnknownAuthors when empty.
	Authors string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, or NoAbstract when empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is a date prefix (YYYY-MM-DD) or a best-effort year,
	// or UnknownDate when the source carries neither.
	Published string `json:"published" yaml:"published"`

	// PDFURL is a direct link believed to resolve to a PDF payload.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// WebURL is a human landing page (abstract or article page).
	WebURL string `json:"web_url,omitempty" yaml:"web_url,omitempty"`

	// Source is the machine name of the originating client
	// (e.g. "arxiv", "semantic_scholar", "pubmed", "ieee"). It namespaces
	// artifact storage.
	Source string `json:"source" yaml:"source"`

	// Venue is the journal or conference name when the source reports one.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is carried opportunistically; nil when the source does
	// not report citation data.
	CitationCount *int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// Categories is a comma-joined subject label list, or Uncategorized.
	// Only the preprint-archive client populates it.
	Categories string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// ExternalID is a source-specific identifier (arXiv ID, PMID) carried
	// for diagnostics and link derivation.
	ExternalID string `json:"external_id,omitempty" yaml:"external_id,omitempty"`
}

// HasLink reports whether the item carries any retrievable link. An item
// without one is still valid but terminal for artifact resolution.
func (it LiteratureItem) HasLink() bool {
	return it.PDFURL != "" || it.WebURL != ""
}

// BestLink returns the link a fallback document should point at: the
// landing page when present, otherwise the PDF link.
func (it LiteratureItem) BestLink() string {
	if it.WebURL != "" {
		return it.WebURL
	}
	return it.PDFURL
}
