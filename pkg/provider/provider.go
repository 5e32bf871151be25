// Package provider defines the BlockProvider contract the sync engine
// pulls blocks through, plus an in-memory implementation used for tests
// and for driving the engine without a real daemon connection.
package provider

import (
	"context"

	"github.com/study/monero-wallet-core/pkg/scanner"
)

// BlockData is one block's worth of data as the sync engine consumes it.
type BlockData struct {
	Height       uint64
	Hash         [32]byte
	Timestamp    int64
	PrevHash     [32]byte
	Transactions []scanner.Transaction
}

// BlockProvider is the external data source the sync engine drives.
// Implementations report transient (retriable) vs. permanent (fatal)
// failures via the xmrerrors.ProviderTransientError /
// xmrerrors.ProviderPermanentError error types.
type BlockProvider interface {
	// Height returns the provider's current chain tip height.
	Height(ctx context.Context) (uint64, error)
	// BlockByHeight returns a single block.
	BlockByHeight(ctx context.Context, h uint64) (BlockData, error)
	// BlocksByRange returns blocks [start, end] inclusive.
	BlocksByRange(ctx context.Context, start, end uint64) ([]BlockData, error)
}
