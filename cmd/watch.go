package cmd

import (
	"context"
	"dropfix/internal/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run headless, controlled through status/stop",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	r := newResident()
	defer r.shutdown()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(sigCtx)

	g.Go(r.server.ListenAndServe)

	g.Go(func() error {
		select {
		case <-ctx.Done():
			if sigCtx.Err() != nil {
				logger.Log.Info("shutting down on signal")
			}
		case <-r.server.StopCh():
			logger.Log.Info("stop requested via API")
		}

		r.shutdown()
		return nil
	})

	logger.Log.Info("watching headless",
		zap.Int("control_port", cfg.ControlPort),
		zap.Int("pid", os.Getpid()))

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
