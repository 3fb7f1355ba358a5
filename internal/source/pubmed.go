// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// pubmedAPIBase is the NCBI E-utilities root. Declared as a var so tests
// can substitute an httptest server.
var pubmedAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// pubmedMaxResults is the source-side ceiling.
const pubmedMaxResults = 100

const (
	pubmedTool        = "paper-harvester"
	defaultPubMedWait = 500 * time.Millisecond
)

const (
	pubmedArticleTemplate = "https://pubmed.ncbi.nlm.nih.gov/%s/"
	pmcPDFTemplate        = "https://www.ncbi.nlm.nih.gov/pmc/articles/%s/pdf/"
)

// PubMedClient queries PubMed through the two-step E-utilities protocol:
// an esearch call for PMIDs, then one batched efetch call for article
// detail. A rate limiter spaces the two calls to respect NCBI usage
// expectations.
type PubMedClient struct {
	client  *http.Client
	cfg     types.SearchConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewPubMed creates a PubMed source client.
func NewPubMed(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *PubMedClient {
	wait := cfg.PubMedCallDelay
	if wait <= 0 {
		wait = defaultPubMedWait
	}
	return &PubMedClient{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(wait), 1),
		log:     log.With().Str("source", "pubmed").Logger(),
	}
}

// Name returns the source identifier.
func (c *PubMedClient) Name() string { return "pubmed" }

// Search queries PubMed and returns normalized items. Failures collapse to
// an empty result.
func (c *PubMedClient) Search(ctx context.Context, keywords string, maxResults int) []types.LiteratureItem {
	items, err := c.search(ctx, keywords, maxResults)
	if err != nil {
		c.log.Warn().Err(err).Str("keywords", keywords).Msg("search failed")
		return nil
	}
	return items
}

func (c *PubMedClient) search(ctx context.Context, keywords string, maxResults int) ([]types.LiteratureItem, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, nil
	}

	if maxResults <= 0 || maxResults > pubmedMaxResults {
		maxResults = pubmedMaxResults
	}

	ids, err := c.searchIDs(ctx, keywords, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	return c.fetchDetails(ctx, ids)
}

// searchIDs runs the esearch step and returns matching PMIDs.
func (c *PubMedClient) searchIDs(ctx context.Context, keywords string, maxResults int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {keywords},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
		"sort":    {"pub_date"},
		"tool":    {pubmedTool},
	}
	if c.cfg.PubMedEmail != "" {
		params.Set("email", c.cfg.PubMedEmail)
	}

	body, err := c.get(ctx, pubmedAPIBase+"/esearch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("PubMed ID search: %w", err)
	}
	defer body.Close()

	var sr pubmedSearchResponse
	if err := json.NewDecoder(body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed ID search response: %w", err)
	}
	return sr.Result.IDList, nil
}

// fetchDetails runs the efetch step: one batched call for all PMIDs.
func (c *PubMedClient) fetchDetails(ctx context.Context, ids []string) ([]types.LiteratureItem, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
		"tool":    {pubmedTool},
	}
	if c.cfg.PubMedEmail != "" {
		params.Set("email", c.cfg.PubMedEmail)
	}

	body, err := c.get(ctx, pubmedAPIBase+"/efetch.fcgi?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("PubMed detail fetch: %w", err)
	}
	defer body.Close()

	var set pubmedArticleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed detail response: %w", err)
	}

	items := make([]types.LiteratureItem, 0, len(set.Articles))
	for _, article := range set.Articles {
		items = append(items, normalizePubMedArticle(article))
	}
	return items, nil
}

// get waits on the rate limiter, then issues a GET and returns the body of
// a 200 response.
func (c *PubMedClient) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// PubMed E-utilities payload structures.
type pubmedSearchResponse struct {
	Result pubmedSearchResult `json:"esearchresult"`
}

type pubmedSearchResult struct {
	IDList []string `json:"idlist"`
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID      string            `xml:"MedlineCitation>PMID"`
	Title     string            `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstracts []string          `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors   []pubmedAuthor    `xml:"MedlineCitation>Article>AuthorList>Author"`
	Journal   string            `xml:"MedlineCitation>Article>Journal>Title"`
	Year      string            `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	IDs       []pubmedArticleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type pubmedArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

func normalizePubMedArticle(article pubmedArticle) types.LiteratureItem {
	item := types.LiteratureItem{
		Title:      orSentinel(article.Title, types.UnknownTitle),
		Source:     "pubmed",
		Venue:      article.Journal,
		ExternalID: article.PMID,
	}

	// Authors are reconstructed from separate name parts; entries without
	// a last name (collective authors) are dropped.
	var names []string
	for _, a := range article.Authors {
		if a.LastName == "" {
			continue
		}
		name := a.LastName
		if a.ForeName != "" {
			name = a.ForeName + " " + name
		}
		names = append(names, name)
	}
	item.Authors = joinAuthors(names)

	// Structured abstracts arrive as multiple fragments; concatenate them.
	var fragments []string
	for _, frag := range article.Abstracts {
		if frag = strings.TrimSpace(frag); frag != "" {
			fragments = append(fragments, frag)
		}
	}
	if len(fragments) > 0 {
		item.Abstract = strings.Join(fragments, " ")
	} else {
		item.Abstract = types.NoAbstract
	}

	item.Published = orSentinel(article.Year, types.UnknownDate)

	if article.PMID != "" {
		item.WebURL = fmt.Sprintf(pubmedArticleTemplate, article.PMID)
	}
	for _, id := range article.IDs {
		if id.IDType == "pmc" && id.Value != "" {
			item.PDFURL = fmt.Sprintf(pmcPDFTemplate, strings.TrimSpace(id.Value))
			break
		}
	}

	return item
}
