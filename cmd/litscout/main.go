// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litscout CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litscout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the litscout CLI.
var rootCmd = &cobra.Command{
	Use:   "litscout",
	Short: "Federated academic literature search and ranking",
	Long: `litscout queries academic metadata APIs (Semantic Scholar, OpenAlex,
arXiv, Crossref, and optionally Google Custom Search) in parallel, merges
duplicate papers across sources, and ranks the merged set by text relevance,
citations, and recency.

Ranked runs can be exported as tables, JSON, CSV, BibTeX, RIS, CSL-YAML, or
a Markdown research brief, bookmarked into a reading list, replayed from
saved setups, or archived into a local SQLite full-text index.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litscout.yaml or ~/.config/litscout/config.yaml)")
	rootCmd.PersistentFlags().String("state", ".litscout_state.json", "path to the persisted reading list and saved setups")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litscout"))
		}
	}

	viper.SetEnvPrefix("LITSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
