// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-harvester/internal/catalog"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query and annotate the persistent paper database",
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search saved papers by title, abstract, or authors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		papers, err := store.SearchPapers(args[0])
		if err != nil {
			return err
		}
		printPapers(papers)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved papers, optionally filtered by category or tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		categoryName, _ := cmd.Flags().GetString("category")
		tagName, _ := cmd.Flags().GetString("tag")

		var papers []catalog.SavedPaper
		switch {
		case categoryName != "":
			cat, err := store.CategoryByName(categoryName)
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("unknown category %q", categoryName)
			}
			papers, err = store.PapersByCategory(cat.ID)
			if err != nil {
				return err
			}
		case tagName != "":
			papers, err = store.PapersByTag(tagName)
			if err != nil {
				return err
			}
		default:
			papers, err = store.SearchPapers("")
			if err != nil {
				return err
			}
		}
		printPapers(papers)
		return nil
	},
}

var catalogNoteCmd = &cobra.Command{
	Use:   "note [paper-id] [text]",
	Short: "Attach a note to a saved paper",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid paper ID %q", args[0])
		}

		store, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		paper, err := store.GetPaper(id)
		if err != nil {
			return err
		}
		if paper == nil {
			return fmt.Errorf("no paper with ID %d", id)
		}

		if _, err := store.AddNote(id, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "noted on %q\n", paper.Title)
		return nil
	},
}

var catalogNotesCmd = &cobra.Command{
	Use:   "notes [paper-id]",
	Short: "Show the notes attached to a saved paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid paper ID %q", args[0])
		}

		store, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		notes, err := store.Notes(id)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Fprintf(os.Stdout, "[%s] %s\n", n.CreatedDate.Format("2006-01-02"), n.Content)
		}
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().String("db", "papers.db", "catalog database file")
	catalogListCmd.Flags().String("category", "", "filter by category name")
	catalogListCmd.Flags().String("tag", "", "filter by tag name")

	catalogCmd.AddCommand(catalogSearchCmd, catalogListCmd, catalogNoteCmd, catalogNotesCmd)
	rootCmd.AddCommand(catalogCmd)
}

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	return catalog.NewStore(types.CatalogConfig{Path: path})
}

func printPapers(papers []catalog.SavedPaper) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tPUBLISHED")
	for _, p := range papers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Source, p.PublishedDate)
	}
	w.Flush()
}
