// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// ResultFile is the on-disk representation of a completed search. The
// search command saves one so the fetch command can later resolve the
// artifacts without re-querying the source.
type ResultFile struct {
	Query   ResultQuery            `yaml:"query"`
	Results []types.LiteratureItem `yaml:"results"`
	Summary ResultSummary          `yaml:"summary"`
}

// ResultQuery stores the request that produced the results.
type ResultQuery struct {
	Domain     string `yaml:"domain,omitempty"`
	Source     string `yaml:"source"`
	Keywords   string `yaml:"keywords"`
	MaxResults int    `yaml:"max_results"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a search request and its results to a YAML file.
func WriteResultFile(path string, req Request, items []types.LiteratureItem) error {
	rf := ResultFile{
		Query: ResultQuery{
			Domain:     req.Domain,
			Source:     req.Source,
			Keywords:   ResolveKeywords(req.Domain, req.Keywords),
			MaxResults: req.MaxResults,
		},
		Results: items,
		Summary: ResultSummary{
			Total:     len(items),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
