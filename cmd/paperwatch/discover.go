package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/pipeline"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch newly published papers and resolve their code links",
	Long: `Discover queries arXiv for each configured topic, resolves a code link
for every new paper through the source chain, merges the results into the
record store, and re-renders all output documents. Papers already in the
store keep their entries unless the same identifier reappears.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().Int("max-results", 0, "override the configured per-topic result cap")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.MaxResults = n
	}
	if len(cfg.Topics) == 0 {
		return fmt.Errorf("no topics configured: add a keywords section to paperwatch.yaml")
	}

	p := pipeline.New(cfg, os.Stdout)
	return p.Discover(cmd.Context())
}
