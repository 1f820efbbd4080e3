package cmd

import (
	"dropfix/internal/config"
	"dropfix/internal/db"
	"dropfix/internal/instance"
	"dropfix/internal/logger"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	debug bool
	guard *instance.Guard
)

// residentCmds own the source folder; only one may run per machine.
var residentCmds = map[string]bool{
	"gui": true, "tui": true, "watch": true,
}

var rootCmd = &cobra.Command{
	Use:          "dropfix",
	Short:        "Watch a folder, fix line 7 of every .utf8 file and move it on",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if !residentCmds[cmd.Name()] {
			return nil
		}

		// the guard is taken before any log or db file is opened
		guard, err = instance.Acquire(cfg.InstancePort)
		if errors.Is(err, instance.ErrAlreadyRunning) {
			fmt.Fprintln(os.Stderr, "dropfix is already running")
			os.Exit(0)
		}
		if err != nil {
			return err
		}

		var opts []logger.Option
		if cmd.Name() == "tui" {
			opts = append(opts, logger.WithoutConsole())
		}
		if err := logger.Init(cfg.LogDir, debug, opts...); err != nil {
			return err
		}

		return db.Init(cfg.DBPath)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func daemonURL(path string) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", cfg.ControlPort, path)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
