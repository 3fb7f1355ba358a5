// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/internal/progress"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// minPDFSize is the size floor below which a downloaded file is judged to
// be an error page rather than a real PDF and deleted.
const minPDFSize = 1024

// downloadChunkSize is the copy granularity for progress reporting.
const downloadChunkSize = 8192

// Speaker synthesizes a narration file, reporting success. It is satisfied
// by narrate.Narrator.
type Speaker interface {
	Speak(text, outputPath string) bool
}

// Narration renders the spoken summary for an item; it points at
// narrate.NarrationText and exists so the resolver package does not import
// narrate directly.
type Narration func(item types.LiteratureItem) string

// Resolver materializes one item's artifact on disk.
type Resolver struct {
	client    *http.Client
	cfg       types.ArtifactConfig
	speaker   Speaker
	narration Narration
	log       zerolog.Logger
}

// NewResolver creates a resolver. speaker may be nil, in which case
// fallback documents are written without audio.
func NewResolver(client *http.Client, cfg types.ArtifactConfig, speaker Speaker, narration Narration, log zerolog.Logger) *Resolver {
	return &Resolver{
		client:    client,
		cfg:       cfg,
		speaker:   speaker,
		narration: narration,
		log:       log.With().Str("component", "artifact").Logger(),
	}
}

// Resolve produces the artifact for one item: a validated PDF when the
// item's pdf link checks out and downloads cleanly, otherwise a fallback
// document built from the item's metadata. It never returns an error; all
// failure detail lands in the outcome.
func (r *Resolver) Resolve(ctx context.Context, item types.LiteratureItem, onProgress progress.Func) types.ArtifactOutcome {
	outcome := types.ArtifactOutcome{Item: item}

	sourceName := item.Source
	if sourceName == "" {
		sourceName = "unknown"
	}
	dir := filepath.Join(r.cfg.DownloadRoot, sourceName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		outcome.Error = fmt.Sprintf("creating artifact directory: %v", err)
		return outcome
	}

	base := SanitizeTitle(item.Title)

	if item.PDFURL != "" && r.looksLikePDF(ctx, item.PDFURL) {
		pdfPath := filepath.Join(dir, base+".pdf")
		err := r.downloadPDF(ctx, item.PDFURL, pdfPath, onProgress)
		if err == nil {
			outcome.Succeeded = true
			outcome.ArtifactPath = pdfPath
			return outcome
		}
		r.log.Debug().Err(err).Str("url", item.PDFURL).Msg("pdf download failed, falling back")
	}

	if !item.HasLink() {
		outcome.Error = "no retrievable link"
		return outcome
	}

	docPath, err := r.writeFallback(dir, base, item)
	if err != nil {
		outcome.Error = fmt.Sprintf("writing fallback document: %v", err)
		return outcome
	}
	outcome.Succeeded = true
	outcome.UsedFallbackLink = true
	outcome.ArtifactPath = docPath
	return outcome
}

// downloadPDF fetches url into destPath via a temp file, reporting
// byte-proportional progress when the response carries a length. An
// existing non-empty destination is kept as is. Responses that declare
// HTML content or produce files under minPDFSize are rejected.
func (r *Resolver) downloadPDF(ctx context.Context, url, destPath string, onProgress progress.Func) error {
	if info, err := os.Stat(destPath); err == nil && info.Size() > 0 {
		if onProgress != nil {
			onProgress(100)
		}
		r.log.Debug().Str("path", destPath).Msg("artifact already present, skipping download")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); strings.Contains(ct, "html") {
		return fmt.Errorf("server returned HTML instead of a PDF")
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, copyErr := copyWithProgress(tmpFile, resp.Body, resp.ContentLength, onProgress)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if written < minPDFSize {
		os.Remove(tmpPath)
		return fmt.Errorf("downloaded file too small (%d bytes), likely an error page", written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// copyWithProgress copies src to dst in chunks, reporting percentages
// against total. A missing content length disables progress, not the copy.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, onProgress progress.Func) (int64, error) {
	buf := make([]byte, downloadChunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if onProgress != nil && total > 0 {
				onProgress(int(written * 100 / total))
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
