// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-harvester/internal/orchestrate"
	"github.com/pdiddy/paper-harvester/internal/progress"
	"github.com/pdiddy/paper-harvester/internal/source"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paper-harvester/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a bibliographic source for papers",
	Long: `Search queries one bibliographic source (arXiv, Semantic Scholar, PubMed,
or the built-in IEEE sample) for papers matching a research domain or
explicit keywords, and saves the normalized results to a YAML file that
fetch can consume.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("domain", "", "preset research domain (see 'paper-harvester sources')")
	searchCmd.Flags().String("keywords", "", "explicit search keywords, overriding the domain preset")
	searchCmd.Flags().String("source", "arxiv", "source to query (arxiv, semantic_scholar, pubmed, ieee)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to request")
	searchCmd.Flags().String("output", "results.yaml", "result file to write")
	searchCmd.Flags().Bool("json", false, "also print results as JSON to stdout")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	req := orchestrate.Request{}
	req.Domain, _ = cmd.Flags().GetString("domain")
	req.Keywords, _ = cmd.Flags().GetString("keywords")
	req.Source, _ = cmd.Flags().GetString("source")
	req.MaxResults, _ = cmd.Flags().GetInt("max-results")
	output, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults:            req.MaxResults,
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("semantic_scholar_api_key")),
		PubMedEmail:           secretDefault("pubmed-email", viper.GetString("pubmed_email")),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	registry := source.DefaultRegistry(client, cfg, log)
	orch := orchestrate.New(registry, log)

	job := orch.Run(cmd.Context(), req)
	for ev := range job.Events() {
		if ev.Kind == progress.KindStatus {
			fmt.Fprintln(os.Stdout, ev.Status)
		}
	}
	items := job.Wait()

	if err := orchestrate.WriteResultFile(output, req, items); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d results to %s\n", len(items), output)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
	}
	return nil
}
