// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivMaxResults is the source-side ceiling, enforced regardless of the
// caller's request.
const arxivMaxResults = 50

const (
	arxivPDFTemplate = "https://arxiv.org/pdf/%s.pdf"
	arxivAbsTemplate = "https://arxiv.org/abs/%s"
)

// ArxivClient queries the arXiv Atom feed API.
type ArxivClient struct {
	client *http.Client
	cfg    types.SearchConfig
	log    zerolog.Logger
}

// NewArxiv creates an arXiv source client.
func NewArxiv(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *ArxivClient {
	return &ArxivClient{client: client, cfg: cfg, log: log.With().Str("source", "arxiv").Logger()}
}

// Name returns the source identifier.
func (c *ArxivClient) Name() string { return "arxiv" }

// Search queries arXiv and returns normalized items. Failures collapse to
// an empty result.
func (c *ArxivClient) Search(ctx context.Context, keywords string, maxResults int) []types.LiteratureItem {
	items, err := c.search(ctx, keywords, maxResults)
	if err != nil {
		c.log.Warn().Err(err).Str("keywords", keywords).Msg("search failed")
		return nil
	}
	return items
}

func (c *ArxivClient) search(ctx context.Context, keywords string, maxResults int) ([]types.LiteratureItem, error) {
	terms := strings.Fields(keywords)
	if len(terms) == 0 {
		return nil, nil
	}

	// Boolean AND over quoted terms, newest submissions first.
	parts := make([]string, len(terms))
	for i, w := range terms {
		parts[i] = fmt.Sprintf("all:%q", w)
	}

	if maxResults <= 0 || maxResults > arxivMaxResults {
		maxResults = arxivMaxResults
	}

	params := url.Values{
		"search_query": {strings.Join(parts, " AND ")},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	items := make([]types.LiteratureItem, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		items = append(items, normalizeArxivEntry(entry))
	}
	return items, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Links      []arxivLink     `xml:"link"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// normalizeArxivEntry maps one Atom entry onto the common item shape,
// deriving PDF and landing-page links from the entry's canonical ID when
// the feed does not carry them explicitly.
func normalizeArxivEntry(entry arxivEntry) types.LiteratureItem {
	item := types.LiteratureItem{
		Title:    orSentinel(entry.Title, types.UnknownTitle),
		Abstract: orSentinel(entry.Summary, types.NoAbstract),
		Source:   "arxiv",
	}

	names := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		names = append(names, a.Name)
	}
	item.Authors = joinAuthors(names)

	if len(entry.Published) >= 10 {
		item.Published = entry.Published[:10]
	} else {
		item.Published = types.UnknownDate
	}

	for _, link := range entry.Links {
		switch {
		case link.Type == "application/pdf":
			item.PDFURL = link.Href
		case link.Rel == "alternate":
			item.WebURL = link.Href
		}
	}

	// The entry ID is a URL like http://arxiv.org/abs/2301.00001v1; its
	// last path segment is the versioned arXiv ID.
	if idx := strings.LastIndex(entry.ID, "/"); idx >= 0 && idx < len(entry.ID)-1 {
		arxivID := entry.ID[idx+1:]
		item.ExternalID = arxivID
		if item.PDFURL == "" {
			item.PDFURL = fmt.Sprintf(arxivPDFTemplate, arxivID)
		}
		if item.WebURL == "" {
			item.WebURL = fmt.Sprintf(arxivAbsTemplate, arxivID)
		}
	}

	var terms []string
	for _, cat := range entry.Categories {
		if cat.Term != "" {
			terms = append(terms, cat.Term)
		}
	}
	if len(terms) > 0 {
		item.Categories = strings.Join(terms, ", ")
	} else {
		item.Categories = types.Uncategorized
	}

	return item
}
