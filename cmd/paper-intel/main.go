// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-intel CLI. The serve
// subcommand runs the HTTP API; extract, score, related and chat run one
// flow against a paper and print the result.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-intel/internal/paper"
	"github.com/pdiddy/paper-intel/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the paper-intel CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-intel",
	Short: "Relevance scoring, related-paper search and grounded chat for arXiv papers",
	Long: `paper-intel takes an arXiv identifier or URL plus a research interest and
extracts the paper's key facts, scores its relevance, finds related papers
and answers questions grounded in its text.

Run "paper-intel serve" for the HTTP API, or one of the flow subcommands
(extract, score, related, chat) for a single request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, nil)
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-intel.yaml or ~/.config/paper-intel/paper-intel.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().Bool("json", false, "output results as JSON")
	rootCmd.PersistentFlags().Bool("yaml", false, "output results as YAML")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func initConfig() {
	// .env fills the environment before viper reads it; existing variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-intel")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-intel"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("PAPER_INTEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if paper.IsInput(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
