// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{
		Path: filepath.Join(t.TempDir(), "papers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePaper(title string) SavedPaper {
	return SavedPaper{
		Title:         title,
		Authors:       "A. Author, B. Author",
		Abstract:      "An abstract about surface defects.",
		URL:           "https://example.org/" + title,
		PDFPath:       "/data/" + title + ".pdf",
		Source:        "arxiv",
		PublishedDate: "2024-01-01",
	}
}

func TestSeededCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.db")

	s, err := NewStore(types.CatalogConfig{Path: path})
	require.NoError(t, err)
	cats, err := s.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, len(baseCategories))
	require.NoError(t, s.Close())

	// Re-opening must not duplicate the seeds.
	s, err = NewStore(types.CatalogConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	cats, err = s.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, len(baseCategories))

	other, err := s.CategoryByName("other")
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, "other", other.Name)
}

func TestAddPaperDedupByTitle(t *testing.T) {
	s := newTestStore(t)

	first, err := s.AddPaper(samplePaper("Defect Detection Survey"))
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.False(t, first.DownloadedDate.IsZero())

	dup := samplePaper("Defect Detection Survey")
	dup.Authors = "Someone Else"
	second, err := s.AddPaper(dup)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "A. Author, B. Author", second.Authors, "existing row wins over the duplicate")
}

func TestAddPaperWithTags(t *testing.T) {
	s := newTestStore(t)

	p, err := s.AddPaper(samplePaper("Tagged Paper"), "inspection", "survey")
	require.NoError(t, err)

	tags, err := s.Tags()
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	byTag, err := s.PapersByTag("inspection")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, p.ID, byTag[0].ID)

	none, err := s.PapersByTag("unused")
	require.NoError(t, err)
	assert.Empty(t, none)

	// Reusing a tag name must not create a second tag row.
	_, err = s.AddPaper(samplePaper("Another Tagged Paper"), "inspection")
	require.NoError(t, err)
	tags, err = s.Tags()
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestSearchPapers(t *testing.T) {
	s := newTestStore(t)

	a := samplePaper("Thermal Imaging Methods")
	a.Abstract = "Infrared inspection of welds."
	_, err := s.AddPaper(a)
	require.NoError(t, err)

	b := samplePaper("Unrelated Topic")
	b.Abstract = "Nothing relevant."
	b.Authors = "C. Thermalson"
	_, err = s.AddPaper(b)
	require.NoError(t, err)

	byTitle, err := s.SearchPapers("thermal")
	require.NoError(t, err)
	assert.Len(t, byTitle, 2, "matches title of one and authors of the other")

	byAbstract, err := s.SearchPapers("welds")
	require.NoError(t, err)
	require.Len(t, byAbstract, 1)
	assert.Equal(t, "Thermal Imaging Methods", byAbstract[0].Title)

	nothing, err := s.SearchPapers("quantum")
	require.NoError(t, err)
	assert.Empty(t, nothing)
}

func TestPapersByCategory(t *testing.T) {
	s := newTestStore(t)

	cat, err := s.CategoryByName("industrial-vision")
	require.NoError(t, err)
	require.NotNil(t, cat)

	p := samplePaper("Filed Paper")
	p.CategoryID.Int64 = cat.ID
	p.CategoryID.Valid = true
	saved, err := s.AddPaper(p)
	require.NoError(t, err)

	filed, err := s.PapersByCategory(cat.ID)
	require.NoError(t, err)
	require.Len(t, filed, 1)
	assert.Equal(t, saved.ID, filed[0].ID)
}

func TestUpdateAndDeletePaper(t *testing.T) {
	s := newTestStore(t)

	p, err := s.AddPaper(samplePaper("Mutable Paper"))
	require.NoError(t, err)

	p.Abstract = "Revised abstract."
	ok, err := s.UpdatePaper(*p)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetPaper(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Revised abstract.", got.Abstract)

	missing := *p
	missing.ID = 9999
	ok, err = s.UpdatePaper(missing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeletePaper(p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = s.GetPaper(p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = s.DeletePaper(p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotes(t *testing.T) {
	s := newTestStore(t)

	p, err := s.AddPaper(samplePaper("Annotated Paper"))
	require.NoError(t, err)

	n1, err := s.AddNote(p.ID, "first impression")
	require.NoError(t, err)
	_, err = s.AddNote(p.ID, "second reading")
	require.NoError(t, err)

	notes, err := s.Notes(p.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, n1.ID, notes[0].ID)
	assert.Equal(t, "first impression", notes[0].Content)
	assert.False(t, notes[0].CreatedDate.IsZero())

	// Deleting the paper cascades to its notes.
	_, err = s.DeletePaper(p.ID)
	require.NoError(t, err)
	notes, err = s.Notes(p.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestFromItem(t *testing.T) {
	count := 12
	item := types.LiteratureItem{
		Title:         "Converted Paper",
		Authors:       "D. Converter",
		Abstract:      "abstract",
		Published:     "2023",
		PDFURL:        "https://example.org/c.pdf",
		WebURL:        "https://example.org/c",
		Source:        "semantic_scholar",
		CitationCount: &count,
	}
	p := FromItem(item, "/data/c.pdf")
	assert.Equal(t, "Converted Paper", p.Title)
	assert.Equal(t, "https://example.org/c", p.URL, "web link preferred")
	assert.Equal(t, "/data/c.pdf", p.PDFPath)
	assert.Equal(t, "2023", p.PublishedDate)
	assert.Equal(t, "semantic_scholar", p.Source)
}
