// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

const (
	fallbackSuffix  = "_abstract.html"
	narrationSuffix = "_narration.wav"
)

// fallbackData feeds the fallback page template.
type fallbackData struct {
	Item        types.LiteratureItem
	Link        string
	AudioFile   string
	HasAudio    bool
	GeneratedAt string
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Item.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; background-color: #f5f5f5; }
.container { background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
.summary { background-color: #fff8e1; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #ffc107; line-height: 1.8; }
.abstract { background: #fff; padding: 15px; border-radius: 5px; margin-top: 10px; border: 1px solid #e0e0e0; }
.audio { margin-top: 20px; padding: 15px; background: #e3f2fd; border-radius: 8px; text-align: center; }
audio { width: 100%; margin-top: 10px; }
.link { margin: 20px 0; text-align: center; }
a { color: #0066cc; text-decoration: none; background-color: #e3f2fd; padding: 10px 20px; border-radius: 5px; display: inline-block; }
h1 { color: #333; border-bottom: 2px solid #0066cc; padding-bottom: 10px; }
.footer { text-align: center; color: #888; font-size: 12px; margin-top: 30px; }
</style>
</head>
<body>
<div class="container">
<h1>Paper Summary</h1>
<div class="summary">
<p><strong>Title:</strong> {{.Item.Title}}</p>
<p><strong>Authors:</strong> {{.Item.Authors}}</p>
<p><strong>Published:</strong> {{.Item.Published}}</p>
<p><strong>Source:</strong> {{.Item.Source}}{{if .Item.Venue}}, {{.Item.Venue}}{{end}}</p>
{{if .Item.CitationCount}}<p><strong>Citations:</strong> {{.Item.CitationCount}}</p>{{end}}
<p><strong>Abstract:</strong></p>
<div class="abstract">{{.Item.Abstract}}</div>
{{if .HasAudio}}
<div class="audio">
<h3>Audio Summary</h3>
<audio controls>
<source src="{{.AudioFile}}" type="audio/wav">
Your browser does not support audio playback.
</audio>
<p>If playback fails, open {{.AudioFile}} in this directory directly.</p>
</div>
{{end}}
</div>
<div class="link">
<h3>Original Article</h3>
<a href="{{.Link}}" target="_blank">Open original article</a>
</div>
<div class="footer">
<p>Generated by paper-harvester</p>
<p>Generated at: {{.GeneratedAt}}</p>
</div>
</div>
</body>
</html>
`))

// writeFallback materializes the fallback artifact: an HTML document
// carrying the item's metadata and best link, plus a narrated WAV summary
// synthesized concurrently. Narration failure degrades the page (no audio
// element), it does not fail the artifact.
func (r *Resolver) writeFallback(dir, base string, item types.LiteratureItem) (string, error) {
	docPath := filepath.Join(dir, base+fallbackSuffix)
	audioName := base + narrationSuffix

	// Synthesis is the slow part; run it while the document is written,
	// then wait so the artifact is complete when we return.
	spoken := make(chan bool, 1)
	if r.speaker != nil && r.narration != nil {
		go func() {
			spoken <- r.speaker.Speak(r.narration(item), filepath.Join(dir, audioName))
		}()
	} else {
		spoken <- false
	}

	data := fallbackData{
		Item:        item,
		Link:        item.BestLink(),
		AudioFile:   audioName,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	f, err := os.Create(docPath)
	if err != nil {
		return "", fmt.Errorf("creating document: %w", err)
	}

	data.HasAudio = <-spoken
	if !data.HasAudio && r.speaker != nil {
		r.log.Debug().Str("item", item.Title).Msg("narration unavailable for fallback document")
	}

	execErr := fallbackTmpl.Execute(f, data)
	closeErr := f.Close()
	if execErr != nil {
		os.Remove(docPath)
		return "", fmt.Errorf("rendering document: %w", execErr)
	}
	if closeErr != nil {
		os.Remove(docPath)
		return "", fmt.Errorf("closing document: %w", closeErr)
	}
	return docPath, nil
}
