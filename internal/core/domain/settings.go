package domain

import "time"

// DefaultCatalogEndpoint is the public game-data catalog GraphQL endpoint.
const DefaultCatalogEndpoint = "https://api.tarkov.dev/graphql"

// Settings holds the recognised configuration options with their defaults.
type Settings struct {
	// Shard controls shard planning limits.
	Shard ShardSettings `toml:"shard"`

	// Fetch controls the catalog source client.
	Fetch FetchSettings `toml:"fetch"`

	// Sync controls the scheduled sync cadence.
	Sync SyncSettings `toml:"sync"`

	// Scheduler controls the background scheduler.
	Scheduler SchedulerSettings `toml:"scheduler"`
}

// ShardSettings controls how records are partitioned into shards.
type ShardSettings struct {
	// ByteBudget is the target serialised size per shard in bytes.
	ByteBudget int `toml:"byte_budget"`

	// MaxItems caps the record count per shard.
	MaxItems int `toml:"max_items"`
}

// FetchSettings controls the catalog source client.
type FetchSettings struct {
	// Endpoint is the catalog GraphQL endpoint URL.
	Endpoint string `toml:"endpoint"`

	// RetryCount is the number of retries after the initial attempt.
	RetryCount int `toml:"retry_count"`

	// RetryDelaySeconds is the base delay between attempts.
	RetryDelaySeconds int `toml:"retry_delay_seconds"`

	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// SyncSettings controls the scheduled sync cadence.
type SyncSettings struct {
	// IntervalHours is the cadence of the periodic sync.
	IntervalHours int `toml:"interval_hours"`
}

// SchedulerSettings controls the background scheduler.
type SchedulerSettings struct {
	// Enabled is the master switch for the scheduler.
	Enabled bool `toml:"enabled"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Shard: ShardSettings{
			ByteBudget: DefaultShardByteBudget,
			MaxItems:   DefaultMaxItemsPerShard,
		},
		Fetch: FetchSettings{
			Endpoint:          DefaultCatalogEndpoint,
			RetryCount:        2,
			RetryDelaySeconds: 2,
			TimeoutSeconds:    30,
		},
		Sync: SyncSettings{
			IntervalHours: 6,
		},
		Scheduler: SchedulerSettings{
			Enabled: true,
		},
	}
}

// Normalise replaces zero or out-of-range values with defaults so a partial
// config file never produces a degenerate configuration.
func (s *Settings) Normalise() {
	def := DefaultSettings()
	if s.Shard.ByteBudget <= 0 || s.Shard.ByteBudget > MaxShardDocumentBytes {
		s.Shard.ByteBudget = def.Shard.ByteBudget
	}
	if s.Shard.MaxItems <= 0 {
		s.Shard.MaxItems = def.Shard.MaxItems
	}
	if s.Fetch.Endpoint == "" {
		s.Fetch.Endpoint = def.Fetch.Endpoint
	}
	if s.Fetch.RetryCount < 0 {
		s.Fetch.RetryCount = def.Fetch.RetryCount
	}
	if s.Fetch.RetryDelaySeconds <= 0 {
		s.Fetch.RetryDelaySeconds = def.Fetch.RetryDelaySeconds
	}
	if s.Fetch.TimeoutSeconds <= 0 {
		s.Fetch.TimeoutSeconds = def.Fetch.TimeoutSeconds
	}
	if s.Sync.IntervalHours <= 0 {
		s.Sync.IntervalHours = def.Sync.IntervalHours
	}
}

// SyncInterval returns the sync cadence as a duration.
func (s *Settings) SyncInterval() time.Duration {
	return time.Duration(s.Sync.IntervalHours) * time.Hour
}

// RetryDelay returns the base delay between fetch attempts.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.Fetch.RetryDelaySeconds) * time.Second
}

// FetchTimeout returns the per-request HTTP timeout.
func (s *Settings) FetchTimeout() time.Duration {
	return time.Duration(s.Fetch.TimeoutSeconds) * time.Second
}
