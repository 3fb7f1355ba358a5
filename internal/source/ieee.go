// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"strings"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// IEEEClient is an offline sample source. IEEE Xplore requires an API
// subscription, so this client returns a fixed result set instead of
// performing network I/O; it also proves the Client contract accepts a
// source with no live integration.
type IEEEClient struct{}

// NewIEEE creates the sample IEEE source client.
func NewIEEE() *IEEEClient { return &IEEEClient{} }

// Name returns the source identifier.
func (c *IEEEClient) Name() string { return "ieee" }

// Search returns the sample result set truncated to maxResults. Blank
// keywords yield an empty result, matching the other clients.
func (c *IEEEClient) Search(_ context.Context, keywords string, maxResults int) []types.LiteratureItem {
	if strings.TrimSpace(keywords) == "" || maxResults <= 0 {
		return nil
	}

	samples := []types.LiteratureItem{
		{
			Title:     "Machine Vision for Industrial Quality Control",
			Authors:   "IEEE Research Team",
			Abstract:  "This paper presents a comprehensive approach to industrial quality control using machine vision techniques, covering defect detection, surface inspection, and automated optical measurement.",
			Published: "2024",
			Source:    "ieee",
			WebURL:    "https://ieeexplore.ieee.org/document/example",
			Venue:     "IEEE Transactions on Industrial Informatics",
		},
	}

	if maxResults < len(samples) {
		samples = samples[:maxResults]
	}
	return samples
}
