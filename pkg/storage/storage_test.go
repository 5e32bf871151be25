package storage

import (
	"testing"

	"github.com/study/monero-wallet-core/pkg/scanner"
	"github.com/study/monero-wallet-core/pkg/wallet"
)

func TestLastSyncedHeightDefaultsToMinusOne(t *testing.T) {
	s := NewMemoryStorage()
	h, err := s.LastSyncedHeight()
	if err != nil {
		t.Fatalf("LastSyncedHeight: %v", err)
	}
	if h != -1 {
		t.Fatalf("LastSyncedHeight = %d, want -1", h)
	}
}

func TestSaveAndMarkOutputSpent(t *testing.T) {
	s := NewMemoryStorage()

	var ki scanner.KeyImage
	ki[0] = 0x42

	o := OwnedOutput{
		TxHash:          [32]byte{1},
		OutputIndex:     0,
		BlockHeight:     10,
		SubaddressIndex: wallet.SubaddressIndex{Major: 0, Minor: 0},
	}.WithKeyImage(ki)

	if err := s.SaveOutput(o); err != nil {
		t.Fatalf("SaveOutput: %v", err)
	}

	if err := s.MarkOutputSpent(ki); err != nil {
		t.Fatalf("MarkOutputSpent: %v", err)
	}

	outputs := s.Outputs()
	if len(outputs) != 1 {
		t.Fatalf("got %d outputs, want 1", len(outputs))
	}
	if !outputs[0].Spent {
		t.Fatal("expected output to be marked spent")
	}
}

func TestMarkOutputSpentUnknownKeyImageIsNoop(t *testing.T) {
	s := NewMemoryStorage()
	var foreign scanner.KeyImage
	foreign[0] = 0xFF
	if err := s.MarkOutputSpent(foreign); err != nil {
		t.Fatalf("MarkOutputSpent on unknown key image should not error: %v", err)
	}
}

func TestRollbackToHeight(t *testing.T) {
	s := NewMemoryStorage()

	for h := uint64(1); h <= 10; h++ {
		if err := s.SetBlockHash(h, [32]byte{byte(h)}); err != nil {
			t.Fatalf("SetBlockHash(%d): %v", h, err)
		}
		o := OwnedOutput{TxHash: [32]byte{byte(h)}, BlockHeight: h}
		if err := s.SaveOutput(o); err != nil {
			t.Fatalf("SaveOutput(%d): %v", h, err)
		}
	}
	if err := s.SetLastSyncedHeight(10); err != nil {
		t.Fatalf("SetLastSyncedHeight: %v", err)
	}

	if err := s.RollbackToHeight(5); err != nil {
		t.Fatalf("RollbackToHeight: %v", err)
	}

	h, _ := s.LastSyncedHeight()
	if h != 5 {
		t.Fatalf("LastSyncedHeight after rollback = %d, want 5", h)
	}
	for _, o := range s.Outputs() {
		if o.BlockHeight > 5 {
			t.Fatalf("output at height %d survived rollback to 5", o.BlockHeight)
		}
	}
	for height := uint64(6); height <= 10; height++ {
		if _, ok, _ := s.BlockHash(height); ok {
			t.Fatalf("block hash at height %d survived rollback to 5", height)
		}
	}
}
