// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/internal/narrate"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// stubTransport routes every request through fn, letting tests answer for
// arbitrary URLs without a live server.
type stubTransport struct {
	fn func(*http.Request) (*http.Response, error)
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return s.fn(req)
}

func stubResponse(status int, contentType, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// fakeSpeaker satisfies Speaker, optionally writing the WAV file.
type fakeSpeaker struct {
	ok      bool
	gotText string
	gotPath string
}

func (f *fakeSpeaker) Speak(text, outputPath string) bool {
	f.gotText = text
	f.gotPath = outputPath
	if f.ok {
		os.WriteFile(outputPath, []byte("RIFFdata"), 0o644)
	}
	return f.ok
}

func testArtifactCfg(root string) types.ArtifactConfig {
	return types.ArtifactConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		DownloadRoot: root,
		ItemDelay:    time.Millisecond,
	}
}

func newTestResolver(t *testing.T, fn func(*http.Request) (*http.Response, error), speaker Speaker) (*Resolver, string) {
	t.Helper()
	root := t.TempDir()
	client := &http.Client{Transport: stubTransport{fn: fn}}
	r := NewResolver(client, testArtifactCfg(root), speaker, narrate.NarrationText, zerolog.Nop())
	return r, root
}

func failingTransport(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestLooksLikePDF(t *testing.T) {
	tests := []struct {
		name string
		url  string
		fn   func(*http.Request) (*http.Response, error)
		want bool
	}{
		{
			name: "pattern match without network",
			url:  "https://arxiv.org/pdf/2301.00001.pdf",
			fn:   failingTransport,
			want: true,
		},
		{
			name: "html page with no pattern",
			url:  "https://example.com/page.html",
			fn: func(*http.Request) (*http.Response, error) {
				return stubResponse(200, "text/html", ""), nil
			},
			want: false,
		},
		{
			name: "pdf content type",
			url:  "https://example.com/files/42",
			fn: func(*http.Request) (*http.Response, error) {
				return stubResponse(200, "application/pdf", ""), nil
			},
			want: true,
		},
		{
			name: "html interstitial on preprint host",
			url:  "https://arxiv.org/pdf/2301.00001v1",
			fn: func(*http.Request) (*http.Response, error) {
				return stubResponse(200, "text/html", ""), nil
			},
			want: true,
		},
		{
			name: "open access pattern",
			url:  "https://openaccess.thecvf.com/papers/x.PDF",
			fn:   failingTransport,
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t, tt.fn, nil)
			if got := r.looksLikePDF(context.Background(), tt.url); got != tt.want {
				t.Errorf("looksLikePDF(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveDownloadsPDF(t *testing.T) {
	payload := strings.Repeat("p", 4096)
	r, root := newTestResolver(t, func(req *http.Request) (*http.Response, error) {
		return stubResponse(200, "application/pdf", payload), nil
	}, nil)

	var percents []int
	item := types.LiteratureItem{
		Title:  "A Good Paper",
		Source: "arxiv",
		PDFURL: "https://arxiv.org/pdf/2301.00001.pdf",
	}
	outcome := r.Resolve(context.Background(), item, func(p int) { percents = append(percents, p) })

	if !outcome.Succeeded || outcome.UsedFallbackLink {
		t.Fatalf("outcome = %+v, want direct PDF success", outcome)
	}
	want := filepath.Join(root, "arxiv", "A_Good_Paper.pdf")
	if outcome.ArtifactPath != want {
		t.Errorf("ArtifactPath = %q, want %q", outcome.ArtifactPath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if len(data) != len(payload) {
		t.Errorf("artifact size = %d, want %d", len(data), len(payload))
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Errorf("progress = %v, want to end at 100", percents)
	}
}

func TestResolveIdempotent(t *testing.T) {
	payload := strings.Repeat("p", 4096)
	var gets int
	fn := func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodGet {
			gets++
		}
		return stubResponse(200, "application/pdf", payload), nil
	}
	r, _ := newTestResolver(t, fn, nil)

	item := types.LiteratureItem{
		Title:  "Stable Paper",
		Source: "arxiv",
		PDFURL: "https://arxiv.org/pdf/2301.00002.pdf",
	}
	first := r.Resolve(context.Background(), item, nil)
	if !first.Succeeded {
		t.Fatalf("first resolve failed: %+v", first)
	}
	if gets != 1 {
		t.Fatalf("gets after first resolve = %d, want 1", gets)
	}

	second := r.Resolve(context.Background(), item, nil)
	if !second.Succeeded || second.ArtifactPath != first.ArtifactPath {
		t.Fatalf("second resolve = %+v, want same path as first", second)
	}
	if gets != 1 {
		t.Errorf("gets after second resolve = %d, want no re-download", gets)
	}
}

func TestResolveRejectsSmallFile(t *testing.T) {
	r, root := newTestResolver(t, func(req *http.Request) (*http.Response, error) {
		return stubResponse(200, "application/pdf", "tiny"), nil
	}, nil)

	item := types.LiteratureItem{
		Title:  "Error Page Paper",
		Source: "arxiv",
		PDFURL: "https://arxiv.org/pdf/2301.00003.pdf",
		WebURL: "https://arxiv.org/abs/2301.00003",
	}
	outcome := r.Resolve(context.Background(), item, nil)

	if !outcome.Succeeded || !outcome.UsedFallbackLink {
		t.Fatalf("outcome = %+v, want fallback after size rejection", outcome)
	}
	if _, err := os.Stat(filepath.Join(root, "arxiv", "Error_Page_Paper.pdf")); !os.IsNotExist(err) {
		t.Error("undersized download was not deleted")
	}
}

func TestResolveRejectsHTMLPayload(t *testing.T) {
	r, _ := newTestResolver(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodHead {
			return stubResponse(200, "application/pdf", ""), nil
		}
		return stubResponse(200, "text/html", strings.Repeat("<html>", 1000)), nil
	}, nil)

	item := types.LiteratureItem{
		Title:  "Paywalled Paper",
		Source: "semantic_scholar",
		PDFURL: "https://example.com/paper",
		WebURL: "https://example.com/abs/paper",
	}
	outcome := r.Resolve(context.Background(), item, nil)

	if !outcome.Succeeded || !outcome.UsedFallbackLink {
		t.Fatalf("outcome = %+v, want fallback after HTML rejection", outcome)
	}
}

func TestResolveFallbackDocument(t *testing.T) {
	speaker := &fakeSpeaker{ok: true}
	r, root := newTestResolver(t, failingTransport, speaker)

	item := types.LiteratureItem{
		Title:     "Linked Only Paper",
		Authors:   "C. Writer",
		Abstract:  "Abstract body.",
		Published: "2024",
		Source:    "semantic_scholar",
		WebURL:    "https://doi.org/10.1/x",
	}
	outcome := r.Resolve(context.Background(), item, nil)

	if !outcome.Succeeded || !outcome.UsedFallbackLink {
		t.Fatalf("outcome = %+v, want fallback success", outcome)
	}
	data, err := os.ReadFile(outcome.ArtifactPath)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, "https://doi.org/10.1/x") {
		t.Error("document does not embed the item's link")
	}
	for _, want := range []string{"Linked Only Paper", "C. Writer", "Abstract body.", "<audio"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	wantAudio := filepath.Join(root, "semantic_scholar", "Linked_Only_Paper"+narrationSuffix)
	if speaker.gotPath != wantAudio {
		t.Errorf("narration path = %q, want %q", speaker.gotPath, wantAudio)
	}
	for _, want := range []string{"Linked Only Paper", "C. Writer", "Abstract body."} {
		if !strings.Contains(speaker.gotText, want) {
			t.Errorf("narration text missing %q", want)
		}
	}
}

func TestResolveNarrationFailureDegrades(t *testing.T) {
	r, _ := newTestResolver(t, failingTransport, &fakeSpeaker{ok: false})

	item := types.LiteratureItem{
		Title:  "Silent Paper",
		Source: "pubmed",
		WebURL: "https://pubmed.ncbi.nlm.nih.gov/1/",
	}
	outcome := r.Resolve(context.Background(), item, nil)

	if !outcome.Succeeded || !outcome.UsedFallbackLink {
		t.Fatalf("outcome = %+v, want fallback success despite narration failure", outcome)
	}
	data, err := os.ReadFile(outcome.ArtifactPath)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	if strings.Contains(string(data), "<audio") {
		t.Error("document embeds an audio element with no narration file")
	}
}

func TestResolveNoLink(t *testing.T) {
	r, _ := newTestResolver(t, failingTransport, nil)

	outcome := r.Resolve(context.Background(), types.LiteratureItem{
		Title:  "Orphan Paper",
		Source: "ieee",
	}, nil)

	if outcome.Succeeded {
		t.Fatalf("outcome = %+v, want failure without any link", outcome)
	}
	if outcome.Error == "" {
		t.Error("failed outcome carries no reason")
	}
}
