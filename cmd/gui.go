package cmd

import (
	"dropfix/internal/gui"

	"github.com/spf13/cobra"
)

var guiMinimized bool

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newResident()
		defer r.shutdown()

		r.server.Start()
		gui.New(cfg, r.service).Run(guiMinimized, r.server.StopCh())
		return nil
	},
}

func init() {
	guiCmd.Flags().BoolVar(&guiMinimized, "minimized", false, "start hidden in the system tray")
	rootCmd.AddCommand(guiCmd)
}
