package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questtrack/refsync/internal/core/domain"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <domain>",
	Short: "Read reference data through the tiered cache",
	Long: `Resolves a data domain through the read path: sharded cache first,
then the legacy fallback document, then a live catalog fetch. Prints which
tier served the data and how fresh it is.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolveCmd,
}

func init() {
	resolveCmd.Flags().Bool("json", false, "print the full record set as JSON")
	resolveCmd.Flags().Int("limit", 0, "limit the number of records printed with --json")
	rootCmd.AddCommand(resolveCmd)
}

func runResolveCmd(cmd *cobra.Command, args []string) error {
	if cacheResolver == nil {
		return errors.New("resolver service not configured")
	}

	d, err := domain.ParseDomain(args[0])
	if err != nil {
		return err
	}

	view, err := cacheResolver.Resolve(cmd.Context(), d)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", d, err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")

	if asJSON {
		records := view.Records
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		raws := make([]json.RawMessage, len(records))
		for i := range records {
			raws[i] = records[i].Raw()
		}
		data, err := json.MarshalIndent(raws, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Domain: %s\n", view.Domain)
	cmd.Printf("Tier: %s\n", view.Tier)
	cmd.Printf("Records: %d\n", len(view.Records))
	if view.AsOf.IsZero() {
		cmd.Println("As of: unknown")
	} else {
		cmd.Printf("As of: %s\n", view.AsOf.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
