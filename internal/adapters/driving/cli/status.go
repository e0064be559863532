package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/questtrack/refsync/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache and scheduler status",
	Long: `Shows the state of the local reference data cache (per-domain
generation, shard counts and freshness) and the periodic sync task.`,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	if shardStore == nil || schedulerStore == nil {
		return errors.New("storage not configured")
	}

	ctx := cmd.Context()

	cmd.Println("Cache")
	for _, d := range domain.AllDomains() {
		meta, err := shardStore.GetMetadata(ctx, d)
		switch {
		case err == nil:
			cmd.Printf("  %-8s sharded, %d shards, updated %s\n",
				d, meta.ShardCount, formatTime(meta.UpdatedAt))
		case errors.Is(err, domain.ErrNotFound):
			if doc, ferr := shardStore.GetFallback(ctx, d); ferr == nil {
				cmd.Printf("  %-8s fallback document, updated %s\n", d, formatTime(doc.UpdatedAt))
			} else {
				cmd.Printf("  %-8s not cached\n", d)
			}
		default:
			return err
		}
	}

	task, err := schedulerStore.GetTask(ctx, domain.TaskIDReferenceSync)
	if err != nil {
		return err
	}

	cmd.Println()
	cmd.Println("Scheduler")
	if task == nil {
		cmd.Println("  Sync task not installed (run 'refsync serve' once)")
		return nil
	}

	cmd.Printf("  Task: %s\n", task.Name)
	cmd.Printf("  Enabled: %v\n", task.Enabled)
	cmd.Printf("  Interval: %s\n", task.Interval)
	cmd.Printf("  Last run: %s\n", formatTime(task.LastRun))
	cmd.Printf("  Next run: %s\n", formatTime(task.NextRun))
	if task.LastError != "" {
		cmd.Printf("  Last error: %s\n", task.LastError)
	}
	return nil
}

// formatTime renders a timestamp for status output, tolerating zero values.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}
