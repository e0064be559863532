// Package cli implements the refsync command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questtrack/refsync/internal/adapters/driven/catalog"
	"github.com/questtrack/refsync/internal/adapters/driven/config/file"
	"github.com/questtrack/refsync/internal/adapters/driven/storage/sqlite"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/core/ports/driving"
	"github.com/questtrack/refsync/internal/core/services"
	"github.com/questtrack/refsync/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by initServices. Tests install mocks and mark the
// services initialised instead of going through the real wiring.
var (
	configStore    driven.ConfigStore
	shardStore     driven.ShardStore
	schedulerStore driven.SchedulerStore
	syncRunner     driving.SyncRunner
	cacheResolver  driving.CacheResolver
	syncScheduler  driving.Scheduler

	store       *sqlite.Store
	initialised bool
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "refsync",
	Short: "Synchronise and serve game reference data",
	Long: `refsync keeps a local cache of the game reference data catalog
(tasks, hideout stations and items), sharded for size-capped document
storage, and serves it through a tiered read path.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.refsync)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.refsync/data)")
}

// initServices wires the adapters and core services. It runs once per
// process.
func initServices() error {
	if initialised {
		return nil
	}

	cfg, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}
	configStore = cfg
	settings := cfg.Settings()

	st, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = st
	shardStore = st.ShardStore()
	schedulerStore = st.SchedulerStore()

	source := catalog.NewClient(settings)
	writer := services.NewShardWriter(shardStore, "sync")
	hub := services.NewEventHub()
	orchestrator := services.NewSyncOrchestrator(source, writer, services.BudgetFromSettings(settings), hub)

	syncRunner = orchestrator
	cacheResolver = services.NewCacheReader(shardStore, source)
	syncScheduler = services.NewScheduler(settings, schedulerStore, orchestrator)

	initialised = true
	return nil
}

// closeServices releases resources opened by initServices.
func closeServices() {
	if store != nil {
		store.Close() //nolint:errcheck
	}
	if configStore != nil {
		configStore.Close() //nolint:errcheck
	}
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}
