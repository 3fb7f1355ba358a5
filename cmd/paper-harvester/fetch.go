// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvester/internal/artifact"
	"github.com/pdiddy/paper-harvester/internal/catalog"
	"github.com/pdiddy/paper-harvester/internal/narrate"
	"github.com/pdiddy/paper-harvester/internal/orchestrate"
	"github.com/pdiddy/paper-harvester/internal/progress"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

const defaultFetchTimeout = 60 * time.Second

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Resolve artifacts for a saved result file",
	Long: `Fetch reads a result file written by search and materializes an artifact
for every item: the PDF when the item's link validates and downloads
cleanly, otherwise a metadata page with a narrated audio summary. Items
are processed sequentially with a pacing delay; one failed item never
stops the batch.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("input", "results.yaml", "result file to process")
	fetchCmd.Flags().String("download-dir", "harvested", "base directory for artifacts")
	fetchCmd.Flags().Duration("delay", 0, "pacing delay between items (default 500ms)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Bool("no-audio", false, "skip audio narration for fallback pages")
	fetchCmd.Flags().String("catalog", "", "also record outcomes in the catalog database at this path")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	input, _ := cmd.Flags().GetString("input")
	downloadDir, _ := cmd.Flags().GetString("download-dir")
	delay, _ := cmd.Flags().GetDuration("delay")
	noAudio, _ := cmd.Flags().GetBool("no-audio")
	catalogPath, _ := cmd.Flags().GetString("catalog")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	rf, err := orchestrate.ReadResultFile(input)
	if err != nil {
		return err
	}
	if len(rf.Results) == 0 {
		fmt.Fprintln(os.Stdout, "no papers to process")
		return nil
	}

	cfg := types.ArtifactConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DownloadRoot: downloadDir,
		ItemDelay:    delay,
	}

	var speaker artifact.Speaker
	if !noAudio {
		speaker = narrate.NewNarrator(log)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	resolver := artifact.NewResolver(client, cfg, speaker, narrate.NarrationText, log)
	processor := artifact.NewProcessor(resolver, cfg, log)

	fmt.Fprintf(os.Stdout, "processing %d papers into %s\n", len(rf.Results), downloadDir)

	run := processor.Start(cmd.Context(), rf.Results)
	for ev := range run.Events() {
		if ev.Kind == progress.KindStatus {
			fmt.Fprintln(os.Stdout, ev.Status)
		}
	}
	summary, outcomes := run.Wait()

	if catalogPath != "" {
		if err := recordOutcomes(catalogPath, outcomes); err != nil {
			return err
		}
	}

	if summary.Failed() == summary.Total && summary.Total > 0 {
		return fmt.Errorf("all %d papers failed", summary.Total)
	}
	return nil
}

// recordOutcomes saves every successful outcome into the catalog database.
func recordOutcomes(path string, outcomes []types.ArtifactOutcome) error {
	store, err := catalog.NewStore(types.CatalogConfig{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()

	saved := 0
	for _, o := range outcomes {
		if !o.Succeeded {
			continue
		}
		if _, err := store.AddPaper(catalog.FromItem(o.Item, o.ArtifactPath)); err != nil {
			return fmt.Errorf("recording %q: %w", o.Item.Title, err)
		}
		saved++
	}
	fmt.Fprintf(os.Stdout, "recorded %d papers in %s\n", saved, path)
	return nil
}
