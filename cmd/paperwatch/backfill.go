package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/pipeline"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Re-attempt code-link resolution for unresolved papers",
	Long: `Backfill scans the record store for papers still missing a code link and
re-runs the resolver chain for each one. Papers that already carry a link
are never re-resolved, so a backfill over a fully resolved store makes no
network requests. All output documents are re-rendered afterwards.`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, os.Stdout)
	return p.Backfill(cmd.Context())
}
