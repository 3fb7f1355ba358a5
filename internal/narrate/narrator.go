// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// NarrationText renders the fixed spoken summary for an item: title,
// authors, publication date, source, then the abstract.
func NarrationText(item types.LiteratureItem) string {
	return fmt.Sprintf(
		"Paper title: %s. Authors: %s. Published: %s. Source: %s. Summary: %s",
		item.Title, item.Authors, item.Published, item.Source, item.Abstract,
	)
}

// Narrator synthesizes narration files. Engine detection runs once, on
// first use; when no engine is found the narrator stays disabled and every
// Speak call reports failure rather than erroring out the pipeline.
type Narrator struct {
	once   sync.Once
	engine Engine
	detect func() (Engine, error)
	log    zerolog.Logger
}

// NewNarrator creates a narrator that detects its engine lazily.
func NewNarrator(log zerolog.Logger) *Narrator {
	return &Narrator{
		detect: DetectEngine,
		log:    log.With().Str("component", "narrate").Logger(),
	}
}

// Speak synthesizes text into a WAV file at outputPath, creating parent
// directories and forcing a .wav extension. It reports true only when the
// file exists and is non-empty afterwards.
func (n *Narrator) Speak(text, outputPath string) bool {
	n.once.Do(func() {
		eng, err := n.detect()
		if err != nil {
			n.log.Warn().Err(err).Msg("narration disabled")
			return
		}
		n.engine = eng
		n.log.Debug().Str("engine", eng.Name()).Msg("speech engine detected")
	})
	if n.engine == nil {
		return false
	}

	if ext := filepath.Ext(outputPath); ext != ".wav" {
		outputPath = strings.TrimSuffix(outputPath, ext) + ".wav"
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			n.log.Warn().Err(err).Str("path", outputPath).Msg("creating narration directory failed")
			return false
		}
	}

	if err := n.engine.Synthesize(text, outputPath); err != nil {
		n.log.Warn().Err(err).Str("path", outputPath).Msg("synthesis failed")
		return false
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		n.log.Warn().Str("path", outputPath).Msg("synthesis produced no file")
		return false
	}
	return true
}
