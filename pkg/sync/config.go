package sync

import "time"

// Config tunes the sync engine's batching, retry, and confirmation
// behavior. Zero-value fields are replaced by DefaultConfig's values
// wherever NewEngine is called with a Config built piecemeal, except
// AutoRetry: a false AutoRetry is kept as false.
type Config struct {
	// ScanFromHeight is where a never-synced wallet starts, when
	// storage.LastSyncedHeight() returns -1.
	ScanFromHeight uint64
	// BatchSize is the number of blocks fetched per provider round trip.
	BatchSize uint64
	// Confirmations is how many blocks behind the tip an output must be
	// before it's reported Confirmed.
	Confirmations uint64

	AutoRetry      bool
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// BatchDelay optionally pauses between batches for rate-limiting.
	BatchDelay time.Duration

	// ProviderTimeout bounds each individual provider call.
	ProviderTimeout time.Duration

	// SubaddressMajorMax/MinorMax hold subaddress table bounds, but the
	// engine does not read them: its scanner checks
	// outputs against whatever table the Scanner passed to NewEngine was
	// built with.
	SubaddressMajorMax uint32
	SubaddressMinorMax uint32

	// EventBufferSize is the per-subscriber channel capacity; on overflow
	// the oldest queued event is dropped in favor of the new one.
	EventBufferSize int
}

// DefaultConfig returns the engine's default tuning, matching §4.7/§5.
func DefaultConfig() Config {
	return Config{
		ScanFromHeight:     0,
		BatchSize:          100,
		Confirmations:      10,
		AutoRetry:          true,
		MaxRetries:         3,
		RetryBaseDelay:     250 * time.Millisecond,
		RetryMaxDelay:      8 * time.Second,
		BatchDelay:         0,
		ProviderTimeout:    30 * time.Second,
		SubaddressMajorMax: 0,
		SubaddressMinorMax: 0,
		EventBufferSize:    256,
	}
}

// withDefaults fills zero-valued fields of cfg from DefaultConfig, so
// callers can build a Config with only the fields they care about.
func (cfg Config) withDefaults() Config {
	d := DefaultConfig()
	if cfg.BatchSize == 0 {
		cfg.BatchSize = d.BatchSize
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = d.Confirmations
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = d.MaxRetries
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = d.RetryBaseDelay
	}
	if cfg.RetryMaxDelay == 0 {
		cfg.RetryMaxDelay = d.RetryMaxDelay
	}
	if cfg.ProviderTimeout == 0 {
		cfg.ProviderTimeout = d.ProviderTimeout
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = d.EventBufferSize
	}
	return cfg
}
