package cmd

import (
	"dropfix/internal/autostart"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Start minimized in the tray at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		as := autostart.New()
		if err := as.Install(execPath); err != nil {
			return err
		}

		fmt.Printf("dropfix registered for autostart: %s\n", as.Location())
		fmt.Printf("runs at login: %s\n", autostart.LaunchCommand(execPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
