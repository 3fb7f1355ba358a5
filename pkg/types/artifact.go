// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArtifactOutcome records what the artifact resolver produced for one item.
// Exactly one of three states holds: a real PDF materialized
// (Succeeded, !UsedFallbackLink), a fallback document materialized
// (Succeeded, UsedFallbackLink), or failure (!Succeeded).
type ArtifactOutcome struct {
	// Item is the literature item this outcome describes.
	Item LiteratureItem `json:"item" yaml:"item"`

	// Succeeded reports whether any artifact was materialized.
	Succeeded bool `json:"succeeded" yaml:"succeeded"`

	// ArtifactPath is the on-disk path of the PDF or fallback document.
	ArtifactPath string `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`

	// UsedFallbackLink is true when the fallback path produced the artifact.
	UsedFallbackLink bool `json:"used_fallback_link" yaml:"used_fallback_link"`

	// Error carries the failure reason when Succeeded is false.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary aggregates per-item outcomes of one batch run. It is derived
// state, never persisted.
type RunSummary struct {
	// PDFCount is the number of items that produced a validated PDF.
	PDFCount int `json:"pdf_count" yaml:"pdf_count"`

	// FallbackCount is the number of items that produced a fallback artifact.
	FallbackCount int `json:"fallback_count" yaml:"fallback_count"`

	// Total is the number of items processed, failures included.
	Total int `json:"total" yaml:"total"`
}

// Failed returns the number of items that produced no artifact at all.
func (s RunSummary) Failed() int {
	return s.Total - s.PDFCount - s.FallbackCount
}
