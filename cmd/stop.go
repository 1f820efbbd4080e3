package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const stopWait = 10 * time.Second

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running instance and wait for it to exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := call(http.MethodPost, "/stop", nil, nil); err != nil {
			return err
		}

		fmt.Println("stopping, waiting for the current file to finish...")
		if err := waitStopped(stopWait, 100*time.Millisecond); err != nil {
			return err
		}

		fmt.Println("stopped")
		return nil
	},
}

// waitStopped polls /status until the control API stops answering.
func waitStopped(timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		err := call(http.MethodGet, "/status", nil, nil)

		var notRunning *errNotRunning
		if errors.As(err, &notRunning) {
			return nil
		}

		time.Sleep(interval)
	}

	return fmt.Errorf("dropfix still running after %s", timeout)
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
