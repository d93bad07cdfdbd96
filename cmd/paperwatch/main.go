// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperwatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperwatch/internal/secrets"
	"github.com/pdiddy/paperwatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paperwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "paperwatch",
	Short: "Track new arXiv papers and link their code implementations",
	Long: `paperwatch watches arXiv for papers matching configured topic queries,
resolves a best-effort link to each paper's public code implementation
(Hugging Face Hub first, then GitHub search fallbacks), accumulates the
results in a JSON record store, and renders the store into Markdown
listings.

Daily runs use the discover subcommand; the weekly backfill subcommand
re-attempts resolution for papers still missing a code link.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperwatch.yaml or ~/.config/paperwatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperwatch"))
		}
	}

	viper.SetEnvPrefix("PAPERWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the pipeline configuration from viper and fills
// in the GitHub token. Token precedence: a user-created MY_GITHUB_TOKEN
// beats the secrets directory, which beats the ambient GITHUB_TOKEN.
func loadConfig() (types.Config, error) {
	viper.SetDefault("timeout", 10*time.Second)
	viper.SetDefault("user_agent", "paperwatch/0.1")
	viper.SetDefault("retries", 2)
	viper.SetDefault("backoff", 800*time.Millisecond)
	viper.SetDefault("max_results", 10)
	viper.SetDefault("store_path", "docs/papers.json")
	viper.SetDefault("badge_repo", "pdiddy/paperwatch")

	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	// viper folds map keys to lower case during Unmarshal, which would
	// mangle the topic names (they become store keys and section
	// headings). Re-read the keywords section straight from the config
	// file with key case intact.
	if path := viper.ConfigFileUsed(); path != "" && len(cfg.Topics) > 0 {
		topics, err := fileTopics(path)
		if err != nil {
			return types.Config{}, err
		}
		if len(topics) > 0 {
			cfg.Topics = topics
		}
	}

	if len(cfg.Outputs) == 0 {
		cfg.Outputs = []types.OutputConfig{{
			Name:      "readme",
			Path:      "README.md",
			Style:     types.StyleTable,
			UseTitle:  true,
			UseTOC:    true,
			ShowBadge: true,
			BackToTop: true,
		}}
	}

	cfg.GitHubToken = githubToken()
	if cfg.GitHubToken == "" {
		fmt.Fprintln(os.Stderr, "warning: no GitHub token found; search requests will be unauthenticated and likely rate-limited")
	}
	return cfg, nil
}

// fileTopics decodes only the keywords section of the config file,
// preserving topic-name case.
func fileTopics(path string) (map[string]types.TopicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Keywords map[string]types.TopicConfig `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Keywords, nil
}

func githubToken() string {
	if v := os.Getenv("MY_GITHUB_TOKEN"); v != "" {
		return v
	}
	if v := loadedSecrets["github-token"]; v != "" {
		return v
	}
	return os.Getenv("GITHUB_TOKEN")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
