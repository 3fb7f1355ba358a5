// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

func TestDefaultRegistryNames(t *testing.T) {
	r := DefaultRegistry(http.DefaultClient, testSearchCfg(), zerolog.Nop())

	want := []string{"arxiv", "semantic_scholar", "pubmed", "ieee"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	for _, name := range want {
		c, ok := r.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if c.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, c.Name())
		}
	}

	if _, ok := r.Lookup("scopus"); ok {
		t.Error("Lookup of unregistered source should fail")
	}
}

func TestIEEESampleSource(t *testing.T) {
	c := NewIEEE()

	items := c.Search(context.Background(), "industrial vision", 5)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Source != "ieee" {
		t.Errorf("Source = %q, want ieee", items[0].Source)
	}
	if items[0].WebURL == "" {
		t.Error("sample item should carry a web link")
	}
	if items[0].PDFURL != "" {
		t.Error("sample item should not claim a direct PDF")
	}

	if got := c.Search(context.Background(), "   ", 5); len(got) != 0 {
		t.Errorf("blank keywords: len = %d, want 0", len(got))
	}
	if got := c.Search(context.Background(), "vision", 0); len(got) != 0 {
		t.Errorf("maxResults 0: len = %d, want 0", len(got))
	}
}

func TestSentinelHelpers(t *testing.T) {
	if got := orSentinel("  ", types.UnknownTitle); got != types.UnknownTitle {
		t.Errorf("orSentinel blank = %q", got)
	}
	if got := orSentinel(" Real Title ", types.UnknownTitle); got != "Real Title" {
		t.Errorf("orSentinel trims = %q", got)
	}
	if got := joinAuthors(nil); got != types.UnknownAuthors {
		t.Errorf("joinAuthors(nil) = %q", got)
	}
	if got := joinAuthors([]string{" A ", "", "B"}); got != "A, B" {
		t.Errorf("joinAuthors = %q", got)
	}
}
