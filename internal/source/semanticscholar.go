// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/internal/httputil"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

// semanticMaxResults is the source-side ceiling.
const semanticMaxResults = 100

const semanticFields = "title,authors,abstract,year,openAccessPdf,url,venue,citationCount,externalIds"

// SemanticScholarClient queries the Semantic Scholar graph API.
type SemanticScholarClient struct {
	client *http.Client
	cfg    types.SearchConfig
	log    zerolog.Logger
}

// NewSemanticScholar creates a Semantic Scholar source client.
func NewSemanticScholar(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *SemanticScholarClient {
	return &SemanticScholarClient{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("source", "semantic_scholar").Logger(),
	}
}

// Name returns the source identifier.
func (c *SemanticScholarClient) Name() string { return "semantic_scholar" }

// Search queries Semantic Scholar and returns normalized items. Failures
// collapse to an empty result.
func (c *SemanticScholarClient) Search(ctx context.Context, keywords string, maxResults int) []types.LiteratureItem {
	items, err := c.search(ctx, keywords, maxResults)
	if err != nil {
		c.log.Warn().Err(err).Str("keywords", keywords).Msg("search failed")
		return nil
	}
	return items
}

func (c *SemanticScholarClient) search(ctx context.Context, keywords string, maxResults int) ([]types.LiteratureItem, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, nil
	}

	if maxResults <= 0 || maxResults > semanticMaxResults {
		maxResults = semanticMaxResults
	}

	params := url.Values{
		"query":  {keywords},
		"limit":  {strconv.Itoa(maxResults)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", c.cfg.SemanticScholarAPIKey)
	}

	resp, err := httputil.DoWithRetry(c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	items := make([]types.LiteratureItem, 0, len(sr.Data))
	for _, paper := range sr.Data {
		items = append(items, normalizeSemanticPaper(paper))
	}
	return items, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	URL           string              `json:"url"`
	Venue         string              `json:"venue"`
	CitationCount *int                `json:"citationCount"`
	OpenAccessPDF *semanticOpenAccess `json:"openAccessPdf"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
}

func normalizeSemanticPaper(paper semanticPaper) types.LiteratureItem {
	item := types.LiteratureItem{
		Title:    orSentinel(paper.Title, types.UnknownTitle),
		Abstract: orSentinel(paper.Abstract, types.NoAbstract),
		Source:   "semantic_scholar",
		Venue:    paper.Venue,
	}

	names := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		names = append(names, a.Name)
	}
	item.Authors = joinAuthors(names)

	if paper.Year > 0 {
		item.Published = strconv.Itoa(paper.Year)
	} else {
		item.Published = types.UnknownDate
	}

	if paper.OpenAccessPDF != nil {
		item.PDFURL = paper.OpenAccessPDF.URL
	}

	item.WebURL = paper.URL
	if item.WebURL == "" && paper.ExternalIDs.DOI != "" {
		item.WebURL = "https://doi.org/" + paper.ExternalIDs.DOI
	}

	// The API reports zero citations as 0, not null, so a missing count
	// still normalizes to a concrete value.
	count := 0
	if paper.CitationCount != nil {
		count = *paper.CitationCount
	}
	item.CitationCount = &count

	return item
}
