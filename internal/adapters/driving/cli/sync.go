package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questtrack/refsync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync [domain]",
	Short: "Synchronise reference data from the catalog",
	Long: `Fetches the reference data catalog and rewrites the local cache.
If a data domain (tasks, hideout, items) is provided, only that domain is
synchronised. Otherwise, all domains are synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSyncCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	if syncRunner == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		d, err := domain.ParseDomain(args[0])
		if err != nil {
			return err
		}

		cmd.Printf("Synchronising %s...\n", d)
		result, err := syncRunner.RunDomain(ctx, d)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		printDomainResult(cmd, *result)
		if result.Outcome == domain.OutcomeFailed {
			return fmt.Errorf("%s failed to sync", d)
		}
		return nil
	}

	cmd.Println("Synchronising all domains...")
	report, err := syncRunner.RunSync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	for _, d := range domain.AllDomains() {
		if result, ok := report.Results[d]; ok {
			printDomainResult(cmd, result)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("domains failed to sync: %v", failed)
	}
	cmd.Println("All domains synchronised successfully.")
	return nil
}

// printDomainResult writes one domain's outcome as a single line.
func printDomainResult(cmd *cobra.Command, result domain.DomainResult) {
	if result.Outcome == domain.OutcomeFailed {
		cmd.Printf("  %-8s failed at %s: %s\n", result.Domain, result.Stage, result.Error)
		return
	}
	cmd.Printf("  %-8s %d records in %d shards (%s)\n",
		result.Domain, result.Records, result.Shards, result.Duration)
}
