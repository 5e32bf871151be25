// Package storage defines the persistence contract the sync engine drives
// — last-synced height, per-height block hashes for reorg detection,
// owned outputs, and spent key images — plus a goroutine-safe in-memory
// implementation suitable for tests and short-lived wallets.
package storage

import (
	"github.com/study/monero-wallet-core/pkg/scanner"
	"github.com/study/monero-wallet-core/pkg/wallet"
)

// OwnedOutput is a transaction output confirmed to belong to the wallet,
// as persisted by the sync engine.
type OwnedOutput struct {
	TxHash          [32]byte
	OutputIndex     uint32
	GlobalIndex     uint64
	Amount          uint64 // 0 until a downstream amount-decryption step fills it in
	PublicKey       [32]byte
	BlockHeight     uint64
	Timestamp       int64
	SubaddressIndex wallet.SubaddressIndex
	Spent           bool
	Confirmed       bool

	keyImage scanner.KeyImage
}

// WithKeyImage returns a copy of o carrying the key image the scanner
// computed for it, used by MemoryStorage to index outputs for
// MarkOutputSpent. The sync engine always sets this from scanner.Match
// before calling SaveOutput.
func (o OwnedOutput) WithKeyImage(ki scanner.KeyImage) OwnedOutput {
	o.keyImage = ki
	return o
}

// KeyImage returns the key image this output was saved with.
func (o OwnedOutput) KeyImage() scanner.KeyImage {
	return o.keyImage
}

// Key returns the (txHash, outputIndex) pair that identifies this output
// among all outputs ever saved, independent of spend state.
func (o OwnedOutput) Key() OutputKey {
	return OutputKey{TxHash: o.TxHash, OutputIndex: o.OutputIndex}
}

// OutputKey identifies a stored output.
type OutputKey struct {
	TxHash      [32]byte
	OutputIndex uint32
}

// WalletStorage is the persistence contract the sync engine drives. Every
// method must be atomic at the call granularity; implementations backed by
// a real database should wrap each in its own transaction.
type WalletStorage interface {
	// LastSyncedHeight returns the last block height fully processed, or
	// -1 if nothing has ever synced.
	LastSyncedHeight() (int64, error)
	SetLastSyncedHeight(h int64) error

	// BlockHash returns the stored hash at height h, or ok=false if none
	// is recorded.
	BlockHash(h uint64) (hash [32]byte, ok bool, err error)
	SetBlockHash(h uint64, hash [32]byte) error

	SaveOutput(o OwnedOutput) error
	MarkOutputSpent(keyImage scanner.KeyImage) error

	// RollbackToHeight removes all outputs with BlockHeight > h, all
	// block hashes with height > h, and sets LastSyncedHeight to h.
	RollbackToHeight(h int64) error
}
