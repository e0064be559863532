package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/questtrack/refsync/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the periodic sync scheduler",
	Long: `Runs the background scheduler that synchronises reference data on
its configured interval. Blocks until interrupted.`,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if syncScheduler == nil {
		return errors.New("scheduler service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Configuration changes take effect on the next process start; log them
	// so an operator knows a restart is pending.
	if configStore != nil {
		changes, cancel := configStore.Subscribe()
		defer cancel()
		go func() {
			for range changes {
				logger.Warn("Configuration changed on disk; restart to apply")
			}
		}()
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	return syncScheduler.Start(ctx)
}
