package cmd

import (
	"github.com/spf13/cobra"

	"github.com/truthylabs/truthy/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal checker",
	Long: `Open an interactive form: enter a paragraph (optional), a question, and
the answer to check, then run the classification and see the styled
verdict inline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDetector()
		if err != nil {
			return err
		}
		t := &tui.TUI{Detector: d, Credential: cfg.APIKey}
		return t.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
