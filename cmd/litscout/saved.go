// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/state"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved search setups (save, list, delete)",
	Long: `Saved keeps labelled search setups so a recurring query and its
filters can be replayed with "litscout search --saved <label>". The list
holds the twenty most recent setups.`,
}

var savedSaveCmd = &cobra.Command{
	Use:   "save [label]",
	Short: "Save a search setup under a label",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedSave,
}

func runSavedSave(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("query is empty: provide --query")
	}

	sources, _ := cmd.Flags().GetStringSlice("sources")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy-title")
	threshold, _ := cmd.Flags().GetFloat64("fuzzy-threshold")
	sortMode, _ := cmd.Flags().GetString("sort")
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	minCitations, _ := cmd.Flags().GetInt("min-citations")
	oaOnly, _ := cmd.Flags().GetBool("oa-only")

	if _, err := parseSortMode(sortMode); err != nil {
		return err
	}

	s := loadState(cmd)
	s.AddSavedSearch(args[0], state.SearchSetup{
		Query:          query,
		Sources:        sources,
		MaxResults:     maxResults,
		FuzzyTitle:     fuzzy,
		FuzzyThreshold: threshold,
		SortMode:       sortMode,
		YearFrom:       yearFrom,
		YearTo:         yearTo,
		MinCitations:   minCitations,
		OpenAccessOnly: oaOnly,
	})
	if err := s.Save(statePath(cmd)); err != nil {
		return err
	}
	fmt.Printf("Saved setup %q\n", args[0])
	return nil
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved search setups",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadState(cmd)
		if len(s.SavedSearches) == 0 {
			fmt.Println("No saved setups.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-4s  %-24s  %s\n", "#", "Label", "Query")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
		for i, item := range s.SavedSearches {
			fmt.Fprintf(os.Stdout, "%-4d  %-24s  %s\n", i+1, item.Label, item.Config.Query)
		}
		return nil
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [label]",
	Short: "Delete a saved setup by label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadState(cmd)
		for i, item := range s.SavedSearches {
			if item.Label == args[0] {
				s.DeleteSavedSearch(i)
				if err := s.Save(statePath(cmd)); err != nil {
					return err
				}
				fmt.Printf("Deleted setup %q\n", args[0])
				return nil
			}
		}
		return fmt.Errorf("no saved setup named %q", args[0])
	},
}

func init() {
	savedSaveCmd.Flags().String("query", "", "free-text research question")
	savedSaveCmd.Flags().StringSlice("sources", nil, "providers to query")
	savedSaveCmd.Flags().Int("max-results", 10, "maximum results per source")
	savedSaveCmd.Flags().Bool("fuzzy-title", false, "merge near-duplicate titles in a second pass")
	savedSaveCmd.Flags().Float64("fuzzy-threshold", 0, "title similarity threshold in [0,1]")
	savedSaveCmd.Flags().String("sort", "relevance", "sort mode: relevance, cited, newest, oldest, title")
	savedSaveCmd.Flags().Int("year-from", 0, "earliest publication year")
	savedSaveCmd.Flags().Int("year-to", 0, "latest publication year")
	savedSaveCmd.Flags().Int("min-citations", 0, "minimum citation count")
	savedSaveCmd.Flags().Bool("oa-only", false, "keep only open-access records")

	savedCmd.AddCommand(savedSaveCmd)
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedDeleteCmd)

	rootCmd.AddCommand(savedCmd)
}
