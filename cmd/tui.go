package cmd

import (
	"dropfix/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run with a terminal interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newResident()
		defer r.shutdown()

		r.server.Start()
		return tui.Run(cfg, r.service, r.server.StopCh())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
