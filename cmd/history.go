package cmd

import (
	"dropfix/internal/model"
	"dropfix/internal/repository"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
	historyStats  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View processed files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyStats {
			var stats repository.Stats
			if err := call(http.MethodGet, "/history/stats", nil, &stats); err != nil {
				return err
			}

			fmt.Printf("total: %d | done: %d | modified: %d | failed: %d\n",
				stats.Total, stats.Done, stats.Modified, stats.Failed)
			return nil
		}

		path := fmt.Sprintf("/history?n=%d", historyN)
		if historyFailed {
			path = "/history/failed"
		}

		var histories []model.History
		if err := call(http.MethodGet, path, nil, &histories); err != nil {
			return err
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			fmt.Println(formatHistory(h))
		}

		return nil
	},
}

func formatHistory(h model.History) string {
	mark := "✓"
	switch h.Outcome {
	case model.OutcomeFailed:
		mark = "✗"
	case model.OutcomeSkipped:
		mark = "-"
	}

	line := fmt.Sprintf("%s [%s] %-7s %s",
		mark,
		h.ProcessedAt.Format("2006-01-02 15:04:05"),
		h.Outcome,
		h.SrcPath,
	)

	switch {
	case h.ErrMsg != "":
		line += ": " + h.ErrMsg
	case h.Modified:
		line += " (fixed)"
	}

	return line
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show failed files only")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show totals instead of entries")
	rootCmd.AddCommand(historyCmd)
}
