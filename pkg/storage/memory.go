package storage

import (
	"sync"

	"github.com/study/monero-wallet-core/pkg/scanner"
)

// MemoryStorage is a goroutine-safe, process-local WalletStorage backed by
// plain maps. It's meant for tests and short-lived wallets; a real
// application backs WalletStorage with a database instead.
type MemoryStorage struct {
	mu sync.RWMutex

	lastSyncedHeight int64
	blockHashes      map[uint64][32]byte
	outputs          map[OutputKey]OwnedOutput
	byKeyImage       map[scanner.KeyImage]OutputKey
}

// NewMemoryStorage returns an empty MemoryStorage with no synced height.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		lastSyncedHeight: -1,
		blockHashes:      make(map[uint64][32]byte),
		outputs:          make(map[OutputKey]OwnedOutput),
		byKeyImage:       make(map[scanner.KeyImage]OutputKey),
	}
}

func (m *MemoryStorage) LastSyncedHeight() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSyncedHeight, nil
}

func (m *MemoryStorage) SetLastSyncedHeight(h int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSyncedHeight = h
	return nil
}

func (m *MemoryStorage) BlockHash(h uint64) ([32]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hash, ok := m.blockHashes[h]
	return hash, ok, nil
}

func (m *MemoryStorage) SetBlockHash(h uint64, hash [32]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockHashes[h] = hash
	return nil
}

func (m *MemoryStorage) SaveOutput(o OwnedOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := o.Key()
	m.outputs[key] = o

	var zero scanner.KeyImage
	if ki := o.KeyImage(); ki != zero {
		m.byKeyImage[ki] = key
	}
	return nil
}

func (m *MemoryStorage) MarkOutputSpent(keyImage scanner.KeyImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.byKeyImage[keyImage]
	if !ok {
		return nil // key image doesn't belong to this wallet
	}
	o := m.outputs[key]
	o.Spent = true
	m.outputs[key] = o
	return nil
}

func (m *MemoryStorage) RollbackToHeight(h int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for height := range m.blockHashes {
		if int64(height) > h {
			delete(m.blockHashes, height)
		}
	}
	for key, o := range m.outputs {
		if int64(o.BlockHeight) > h {
			delete(m.outputs, key)
			for ki, ok := range m.byKeyImage {
				if ok == key {
					delete(m.byKeyImage, ki)
				}
			}
		}
	}
	m.lastSyncedHeight = h
	return nil
}

// Outputs returns a snapshot slice of every output currently stored, for
// tests and diagnostics. The wallet's own key-image index is not exposed;
// callers interested in spend state read Spent off each OwnedOutput.
func (m *MemoryStorage) Outputs() []OwnedOutput {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OwnedOutput, 0, len(m.outputs))
	for _, o := range m.outputs {
		out = append(out, o)
	}
	return out
}
