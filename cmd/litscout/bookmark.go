// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/aggregate"
	"github.com/pdiddy/litscout/internal/export"
	"github.com/pdiddy/litscout/internal/state"
	"github.com/pdiddy/litscout/pkg/types"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage the reading list (add, remove, list, export)",
	Long: `Bookmark maintains a persistent reading list keyed by record ID.
Records are added from a saved query file, so a paper can be bookmarked
without re-querying the providers.`,
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add [record-id]",
	Short: "Add a record from a query file to the reading list",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkAdd,
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	recordID := args[0]
	fromPath, _ := cmd.Flags().GetString("from")
	if fromPath == "" {
		return fmt.Errorf("query file required: use --from file.yaml")
	}

	qf, err := aggregate.ReadQueryFile(fromPath)
	if err != nil {
		return err
	}

	for _, r := range qf.Records {
		if r.RecordID == recordID {
			s := loadState(cmd)
			s.AddBookmark(r)
			if err := s.Save(statePath(cmd)); err != nil {
				return err
			}
			fmt.Printf("Bookmarked %s: %s\n", recordID, r.Title)
			return nil
		}
	}
	return fmt.Errorf("record %s not found in %s", recordID, fromPath)
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "remove [record-id]",
	Short: "Remove a record from the reading list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadState(cmd)
		if !s.RemoveBookmark(args[0]) {
			return fmt.Errorf("record %s is not bookmarked", args[0])
		}
		if err := s.Save(statePath(cmd)); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the reading list",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadState(cmd)
		ids := s.BookmarkIDs()
		if len(ids) == 0 {
			fmt.Println("Your reading list is empty.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-22s  %-50s  %-4s  %-5s  %s\n",
			"RecordId", "Title", "Year", "Cites", "Sources")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, id := range ids {
			r := state.Unflatten(s.Bookmarks[id])
			year := ""
			if r.Year > 0 {
				year = fmt.Sprintf("%d", r.Year)
			}
			title := r.Title
			if len(title) > 50 {
				title = title[:47] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-22s  %-50s  %-4s  %-5d  %s\n",
				id, title, year, r.Citations, strings.Join(r.Sources, ","))
		}
		fmt.Fprintf(os.Stdout, "\n%d saved papers\n", len(ids))
		return nil
	},
}

var bookmarkExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the reading list as BibTeX or CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadState(cmd)
		records := make([]types.ScoredRecord, 0, len(s.Bookmarks))
		for _, id := range s.BookmarkIDs() {
			records = append(records, state.Unflatten(s.Bookmarks[id]))
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "bibtex", "":
			return export.FormatBibTeX(records, os.Stdout)
		case "csv":
			return export.FormatCSV(records, os.Stdout)
		default:
			return fmt.Errorf("unsupported format %q: use bibtex or csv", format)
		}
	},
}

func init() {
	bookmarkAddCmd.Flags().String("from", "", "query file holding the record (from search --save)")
	bookmarkExportCmd.Flags().String("format", "bibtex", "export format: bibtex or csv")

	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkRemoveCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
	bookmarkCmd.AddCommand(bookmarkExportCmd)

	rootCmd.AddCommand(bookmarkCmd)
}
