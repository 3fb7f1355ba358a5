// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

// pdfURLPatterns are URL shapes accepted as probable PDFs when the HEAD
// probe is inconclusive.
var pdfURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.pdf$`),
	regexp.MustCompile(`(?i)arxiv\.org/pdf/`),
	regexp.MustCompile(`(?i)biorxiv\.org.*\.pdf`),
	regexp.MustCompile(`(?i)openaccess.*\.pdf`),
}

// looksLikePDF reports whether rawURL plausibly serves a PDF. A HEAD probe
// decides when it returns a pdf content type, or an html content type on
// hosts known to front PDFs with an HTML interstitial. Probe failures and
// other content types fall through to URL pattern heuristics.
func (r *Resolver) looksLikePDF(ctx context.Context, rawURL string) bool {
	if req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil); err == nil {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
		if resp, err := r.client.Do(req); err == nil {
			resp.Body.Close()
			ct := strings.ToLower(resp.Header.Get("Content-Type"))
			switch {
			case strings.Contains(ct, "pdf"):
				return true
			case strings.Contains(ct, "html") &&
				(strings.Contains(rawURL, "arxiv.org/pdf") || strings.Contains(rawURL, "biorxiv.org")):
				return true
			}
		}
	}

	for _, p := range pdfURLPatterns {
		if p.MatchString(rawURL) {
			return true
		}
	}
	return false
}
