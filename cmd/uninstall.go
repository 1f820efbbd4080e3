package cmd

import (
	"dropfix/internal/autostart"
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the login autostart entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		as := autostart.New()

		installed, err := as.IsInstalled()
		if err != nil {
			return err
		}
		if !installed {
			fmt.Println("dropfix autostart not registered")
			return nil
		}

		if err := as.Uninstall(); err != nil {
			return err
		}

		fmt.Printf("dropfix autostart removed: %s\n", as.Location())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
