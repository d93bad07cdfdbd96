package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwatch/internal/pipeline"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Re-render output documents from the current store",
	Long: `Render rewrites every configured output document from the record store
as it stands, without any network traffic. Useful after editing the store
or the output configuration by hand.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, os.Stdout)
	return p.RenderOnly()
}
