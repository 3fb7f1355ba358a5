// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the bibliographic source clients. Each client
// queries one external API (arXiv, Semantic Scholar, PubMed) or a built-in
// sample set and normalizes the source's native payload into
// types.LiteratureItem records.
//
// Clients never propagate transport or parse failures: a failed or
// malformed response collapses to an empty result, with the reason written
// to the diagnostics log. Callers cannot distinguish "source unreachable"
// from "no matches" through the return value; that distinction lives in
// the log only.
package source

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// Client searches a single bibliographic source. One implementation exists
// per external API plus an offline sample source; the orchestrator
// dispatches on Name through a Registry.
type Client interface {
	// Name returns the machine name of the source. It keys registry
	// dispatch and namespaces artifact storage.
	Name() string

	// Search returns normalized items for the whitespace-separated
	// keywords, capped at maxResults and at the source's own ceiling.
	// Blank keywords and any transport or parse failure yield an empty
	// slice, never an error.
	Search(ctx context.Context, keywords string, maxResults int) []types.LiteratureItem
}

// Registry maps source names to clients. It is built once at startup;
// adding a source means adding one Client implementation and registering
// it here.
type Registry struct {
	clients map[string]Client
	order   []string
}

// NewRegistry builds a registry from the given clients, preserving
// registration order for Names.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		if _, dup := r.clients[c.Name()]; dup {
			continue
		}
		r.clients[c.Name()] = c
		r.order = append(r.order, c.Name())
	}
	return r
}

// Lookup returns the client registered under name.
func (r *Registry) Lookup(name string) (Client, bool) {
	c, ok := r.clients[name]
	return c, ok
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry wires up all four source clients with a shared HTTP
// client and configuration.
func DefaultRegistry(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *Registry {
	return NewRegistry(
		NewArxiv(client, cfg, log),
		NewSemanticScholar(client, cfg, log),
		NewPubMed(client, cfg, log),
		NewIEEE(),
	)
}

// orSentinel returns the trimmed value, or sentinel when it is empty.
func orSentinel(value, sentinel string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return sentinel
	}
	return v
}

// joinAuthors renders an author display list, falling back to the
// unknown-authors sentinel.
func joinAuthors(names []string) string {
	var kept []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return types.UnknownAuthors
	}
	return strings.Join(kept, ", ")
}
