// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/archive"
	"github.com/pdiddy/litscout/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Query the local archive of past search runs",
	Long: `Archive manages the SQLite database of archived search runs. Runs are
written by "litscout search --archive"; this command lists them and serves
full-text queries over the archived titles and abstracts.`,
}

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(context.Background())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("The archive is empty.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-6s  %-40s  %-20s  %s\n", "Run", "Query", "Created", "Records")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
		for _, r := range runs {
			query := r.Query
			if len(query) > 40 {
				query = query[:37] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-6d  %-40s  %-20s  %d\n", r.ID, query, r.Created, r.Records)
		}
		return nil
	},
}

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived titles and abstracts",
	RunE:  runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	runID, _ := cmd.Flags().GetInt64("run")
	limit, _ := cmd.Flags().GetInt("limit")

	if query == "" && runID == 0 {
		return fmt.Errorf("query or filter required: provide a search query or --run")
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), archive.QueryOptions{
		Query:      query,
		RunID:      runID,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-4s  %-6s  %-6s  %s\n",
		"Rank", "Title", "Year", "Score", "Run", "Run Query")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		runQuery := r.RunQuery
		if len(runQuery) > 24 {
			runQuery = runQuery[:21] + "..."
		}
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-4s  %-6.3f  %-6d  %s\n",
			i+1, title, year, r.Score, r.RunID, runQuery)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return archive.NewStore(types.ArchiveConfig{
		ArchiveDir: archiveDir,
		MaxResults: maxResults,
	})
}

func init() {
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "base directory for the archive database")
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	archiveSearchCmd.Flags().String("query", "", "full-text search query")
	archiveSearchCmd.Flags().Int64("run", 0, "restrict results to one run ID")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveSearchCmd.Flags().Bool("json", false, "output results as JSON")

	archiveCmd.AddCommand(archiveRunsCmd)
	archiveCmd.AddCommand(archiveSearchCmd)

	rootCmd.AddCommand(archiveCmd)
}
