// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists harvested papers in a SQLite database with
// categories, tags, and free-form notes. It is the durable side of the
// pipeline; everything else works on in-flight items.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// defaultDBFile is used when the configuration names no database path.
const defaultDBFile = "papers.db"

// baseCategories are created on first open so saved papers always have
// somewhere to land.
var baseCategories = []struct {
	Name        string
	Description string
}{
	{"computer-vision", "Computer vision research papers"},
	{"deep-learning", "Deep learning research papers"},
	{"industrial-vision", "Industrial vision application papers"},
	{"medical-imaging", "Medical image analysis papers"},
	{"other", "Uncategorized papers"},
}

// SavedPaper is a catalog row for one paper.
type SavedPaper struct {
	ID             int64
	Title          string
	Authors        string
	Abstract       string
	URL            string
	PDFPath        string
	Source         string
	PublishedDate  string
	DownloadedDate time.Time
	CategoryID     sql.NullInt64
}

// Category is a catalog grouping for papers.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Tag is a free-form label attached to papers.
type Tag struct {
	ID   int64
	Name string
}

// Note is an annotation attached to one paper.
type Note struct {
	ID          int64
	PaperID     int64
	Content     string
	CreatedDate time.Time
}

// FromItem converts a literature item and its resolved artifact path into
// a catalog row.
func FromItem(item types.LiteratureItem, artifactPath string) SavedPaper {
	return SavedPaper{
		Title:         item.Title,
		Authors:       item.Authors,
		Abstract:      item.Abstract,
		URL:           item.BestLink(),
		PDFPath:       artifactPath,
		Source:        item.Source,
		PublishedDate: item.Published,
	}
}

// Store manages the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at cfg.Path, creating the
// schema and seeding the base categories when missing.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.seedCategories(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding categories: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			url TEXT,
			pdf_path TEXT,
			source TEXT,
			published_date TEXT,
			downloaded_date TEXT NOT NULL,
			category_id INTEGER REFERENCES categories(id)
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS paper_tags (
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id),
			PRIMARY KEY (paper_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id INTEGER NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_title ON papers(title)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_category ON papers(category_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) seedCategories() error {
	for _, c := range baseCategories {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO categories (name, description) VALUES (?, ?)`,
			c.Name, c.Description,
		); err != nil {
			return err
		}
	}
	return nil
}

// AddPaper inserts a paper, deduplicating by title: an existing paper with
// the same title is returned unchanged instead of inserting a second copy.
func (s *Store) AddPaper(p SavedPaper, tagNames ...string) (*SavedPaper, error) {
	if existing, err := s.paperByTitle(p.Title); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if p.DownloadedDate.IsZero() {
		p.DownloadedDate = time.Now().UTC()
	}

	res, err := s.db.Exec(
		`INSERT INTO papers (title, authors, abstract, url, pdf_path, source, published_date, downloaded_date, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Authors, p.Abstract, p.URL, p.PDFPath, p.Source,
		p.PublishedDate, p.DownloadedDate.Format(time.RFC3339), p.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting paper: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted ID: %w", err)
	}
	p.ID = id

	for _, name := range tagNames {
		tag, err := s.GetOrCreateTag(name)
		if err != nil {
			return nil, err
		}
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO paper_tags (paper_id, tag_id) VALUES (?, ?)`,
			p.ID, tag.ID,
		); err != nil {
			return nil, fmt.Errorf("attaching tag %q: %w", name, err)
		}
	}

	return &p, nil
}

func (s *Store) paperByTitle(title string) (*SavedPaper, error) {
	row := s.db.QueryRow(selectPapers+` WHERE title = ?`, title)
	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up paper by title: %w", err)
	}
	return p, nil
}

// GetPaper returns the paper with the given ID, or nil when absent.
func (s *Store) GetPaper(id int64) (*SavedPaper, error) {
	row := s.db.QueryRow(selectPapers+` WHERE id = ?`, id)
	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up paper %d: %w", id, err)
	}
	return p, nil
}

// PapersByCategory returns all papers filed under the category.
func (s *Store) PapersByCategory(categoryID int64) ([]SavedPaper, error) {
	rows, err := s.db.Query(selectPapers+` WHERE category_id = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("querying papers by category: %w", err)
	}
	return collectPapers(rows)
}

// PapersByTag returns all papers carrying the named tag.
func (s *Store) PapersByTag(tagName string) ([]SavedPaper, error) {
	rows, err := s.db.Query(
		selectPapers+`
		 JOIN paper_tags pt ON pt.paper_id = papers.id
		 JOIN tags t ON t.id = pt.tag_id
		 WHERE t.name = ? ORDER BY papers.id`,
		tagName,
	)
	if err != nil {
		return nil, fmt.Errorf("querying papers by tag: %w", err)
	}
	return collectPapers(rows)
}

// SearchPapers returns papers whose title, abstract, or authors contain
// keyword, case-insensitively.
func (s *Store) SearchPapers(keyword string) ([]SavedPaper, error) {
	like := "%" + keyword + "%"
	rows, err := s.db.Query(
		selectPapers+`
		 WHERE title LIKE ? OR abstract LIKE ? OR authors LIKE ?
		 ORDER BY id`,
		like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}
	return collectPapers(rows)
}

// UpdatePaper overwrites the stored fields of the paper with p.ID. It
// reports false when no such paper exists.
func (s *Store) UpdatePaper(p SavedPaper) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE papers SET title = ?, authors = ?, abstract = ?, url = ?,
		 pdf_path = ?, source = ?, published_date = ?, category_id = ?
		 WHERE id = ?`,
		p.Title, p.Authors, p.Abstract, p.URL, p.PDFPath, p.Source,
		p.PublishedDate, p.CategoryID, p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating paper %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeletePaper removes the paper and, via cascade, its tags links and
// notes. It reports false when no such paper exists.
func (s *Store) DeletePaper(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting paper %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetOrCreateTag returns the tag with the given name, creating it first
// when needed.
func (s *Store) GetOrCreateTag(name string) (*Tag, error) {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return nil, fmt.Errorf("creating tag %q: %w", name, err)
	}
	var t Tag
	if err := s.db.QueryRow(`SELECT id, name FROM tags WHERE name = ?`, name).Scan(&t.ID, &t.Name); err != nil {
		return nil, fmt.Errorf("looking up tag %q: %w", name, err)
	}
	return &t, nil
}

// AddNote attaches a note to the paper.
func (s *Store) AddNote(paperID int64, content string) (*Note, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO notes (paper_id, content, created_date) VALUES (?, ?, ?)`,
		paperID, content, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Note{ID: id, PaperID: paperID, Content: content, CreatedDate: now}, nil
}

// Notes returns all notes attached to the paper, oldest first.
func (s *Store) Notes(paperID int64) ([]Note, error) {
	rows, err := s.db.Query(
		`SELECT id, paper_id, content, created_date FROM notes WHERE paper_id = ? ORDER BY id`,
		paperID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var created string
		if err := rows.Scan(&n.ID, &n.PaperID, &n.Content, &created); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.CreatedDate, _ = time.Parse(time.RFC3339, created)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Categories returns all categories, seeded ones included.
func (s *Store) Categories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, COALESCE(description, '') FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CategoryByName returns the category with the given name, or nil.
func (s *Store) CategoryByName(name string) (*Category, error) {
	var c Category
	err := s.db.QueryRow(
		`SELECT id, name, COALESCE(description, '') FROM categories WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up category %q: %w", name, err)
	}
	return &c, nil
}

// Tags returns all tags in creation order.
func (s *Store) Tags() ([]Tag, error) {
	rows, err := s.db.Query(`SELECT id, name FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

const selectPapers = `SELECT papers.id, papers.title, papers.authors, papers.abstract,
 papers.url, papers.pdf_path, papers.source, papers.published_date,
 papers.downloaded_date, papers.category_id FROM papers`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*SavedPaper, error) {
	var p SavedPaper
	var authors, abstract, url, pdfPath, source, published sql.NullString
	var downloaded string
	if err := row.Scan(
		&p.ID, &p.Title, &authors, &abstract, &url, &pdfPath,
		&source, &published, &downloaded, &p.CategoryID,
	); err != nil {
		return nil, err
	}
	p.Authors = authors.String
	p.Abstract = abstract.String
	p.URL = url.String
	p.PDFPath = pdfPath.String
	p.Source = source.String
	p.PublishedDate = published.String
	p.DownloadedDate, _ = time.Parse(time.RFC3339, downloaded)
	return &p, nil
}

func collectPapers(rows *sql.Rows) ([]SavedPaper, error) {
	defer rows.Close()
	var papers []SavedPaper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}
