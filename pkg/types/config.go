// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-harvester/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the number of items requested from the selected source.
	// Each source additionally enforces its own hard ceiling.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// PubMedEmail is the contact address sent with E-utilities calls, as
	// NCBI usage policy asks.
	PubMedEmail string `json:"pubmed_email,omitempty" yaml:"pubmed_email,omitempty"`

	// PubMedCallDelay is the minimum spacing between consecutive
	// E-utilities calls (default 500ms).
	PubMedCallDelay time.Duration `json:"pubmed_call_delay" yaml:"pubmed_call_delay"`
}

// ArtifactConfig holds settings for artifact resolution and batch
// processing.
type ArtifactConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadRoot is the base directory for artifacts. Each item is stored
	// under a subdirectory named after its source.
	DownloadRoot string `json:"download_root" yaml:"download_root"`

	// ItemDelay is the pacing delay between consecutive items in a batch
	// (default 500ms).
	ItemDelay time.Duration `json:"item_delay" yaml:"item_delay"`
}

// CatalogConfig holds settings for the persistent paper catalog.
type CatalogConfig struct {
	// Path is the SQLite database file (default "papers.db").
	Path string `json:"path" yaml:"path"`
}
