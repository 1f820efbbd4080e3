package cmd

import (
	"dropfix/internal/model"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the running instance is doing",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st model.Status
		if err := call(http.MethodGet, "/status", nil, &st); err != nil {
			return err
		}

		printStatus(st)
		return nil
	},
}

func printStatus(st model.Status) {
	source, target := st.Source, st.Target
	if source == "" {
		source = "-"
	}
	if target == "" {
		target = "-"
	}

	fmt.Printf("%-10s %s\n", "STATE", st.State)
	fmt.Printf("%-10s %s\n", "SOURCE", source)
	fmt.Printf("%-10s %s\n", "TARGET", target)
	fmt.Printf("%-10s %s\n", "COUNTERS", st.Intake.Counters)
	fmt.Printf("%-10s %d\n", "IN FLIGHT", len(st.Intake.InFlight))
	fmt.Printf("%-10s %s (up %s)\n", "RUN", st.RunID, time.Since(st.StartedAt).Round(time.Second))

	if st.LastErr != "" {
		fmt.Printf("%-10s %s\n", "ERROR", st.LastErr)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
