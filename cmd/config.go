package cmd

import (
	"dropfix/internal/config"
	"dropfix/internal/model"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	setSource string
	setTarget string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the watched folders",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := config.NewPathStore(cfg.PathsFile)
		paths, ok := store.Load()

		fmt.Printf("%-14s %s\n", "dir", cfg.Dir)
		fmt.Printf("%-14s %s\n", "paths file", store.File())
		if ok {
			fmt.Printf("%-14s %s\n", "source", paths.Source)
			fmt.Printf("%-14s %s\n", "target", paths.Target)
		} else {
			fmt.Printf("%-14s %s\n", "folders", model.StateNotConfigured)
		}
		fmt.Printf("%-14s %s\n", "extension", cfg.Extension)
		fmt.Printf("%-14s %s\n", "settle delay", cfg.SettleDelay)
		fmt.Printf("%-14s %s\n", "debounce", cfg.DebounceWindow)
		fmt.Printf("%-14s %s\n", "log dir", cfg.LogDir)
		fmt.Printf("%-14s %s\n", "db", cfg.DBPath)
		fmt.Printf("%-14s %d\n", "control port", cfg.ControlPort)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the source and target folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.Paths{Source: setSource, Target: setTarget}

		// a running instance validates, saves and reschedules in one step
		var st model.Status
		err := call(http.MethodPut, "/settings", paths, &st)
		if err == nil {
			fmt.Printf("saved, running instance is %s\n", st.State)
			return nil
		}

		var notRunning *errNotRunning
		if !errors.As(err, &notRunning) {
			return err
		}

		if err := config.NewPathStore(cfg.PathsFile).Save(paths); err != nil {
			return err
		}

		fmt.Println("saved")
		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&setSource, "source", "", "folder to watch")
	configSetCmd.Flags().StringVar(&setTarget, "target", "", "folder to move corrected files into")
	_ = configSetCmd.MarkFlagRequired("source")
	_ = configSetCmd.MarkFlagRequired("target")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
