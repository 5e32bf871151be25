package provider

import (
	"context"
	"sync"

	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

// StaticProvider is an in-memory BlockProvider over a fixed (but
// replaceable) slice of blocks, for tests and for running the sync engine
// without a real daemon. ReplaceBlocks lets a test simulate a reorg by
// swapping in blocks with the same heights but different hashes.
type StaticProvider struct {
	mu sync.RWMutex

	byHeight map[uint64]BlockData
	maxH     uint64
	hasAny   bool

	// injectedTransientCalls counts down remaining calls that should
	// return a transient failure, for exercising the retry policy.
	injectedTransientCalls int
	injectedPermanent      error
}

// NewStaticProvider builds a StaticProvider seeded with blocks.
func NewStaticProvider(blocks []BlockData) *StaticProvider {
	p := &StaticProvider{byHeight: make(map[uint64]BlockData)}
	p.ReplaceBlocks(blocks)
	return p
}

// ReplaceBlocks overwrites or adds the given blocks, recomputing the
// provider's reported tip height as the maximum height across everything
// it now holds.
func (p *StaticProvider) ReplaceBlocks(blocks []BlockData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range blocks {
		p.byHeight[b.Height] = b
		if !p.hasAny || b.Height > p.maxH {
			p.maxH = b.Height
			p.hasAny = true
		}
	}
}

// InjectTransientFailures makes the next n provider calls return a
// ProviderTransientError instead of succeeding.
func (p *StaticProvider) InjectTransientFailures(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.injectedTransientCalls = n
}

// InjectPermanentFailure makes every subsequent provider call return a
// ProviderPermanentError wrapping err, until cleared by passing nil.
func (p *StaticProvider) InjectPermanentFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.injectedPermanent = err
}

func (p *StaticProvider) nextFailure() error {
	if p.injectedPermanent != nil {
		return &xmrerrors.ProviderPermanentError{Message: "injected failure", Cause: p.injectedPermanent}
	}
	if p.injectedTransientCalls > 0 {
		p.injectedTransientCalls--
		return &xmrerrors.ProviderTransientError{Cause: context.DeadlineExceeded}
	}
	return nil
}

func (p *StaticProvider) Height(ctx context.Context) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.nextFailure(); err != nil {
		return 0, err
	}
	return p.maxH, nil
}

func (p *StaticProvider) BlockByHeight(ctx context.Context, h uint64) (BlockData, error) {
	p.mu.Lock()
	if err := p.nextFailure(); err != nil {
		p.mu.Unlock()
		return BlockData{}, err
	}
	b, ok := p.byHeight[h]
	p.mu.Unlock()
	if !ok {
		return BlockData{}, &xmrerrors.ProviderPermanentError{Message: "no such block"}
	}
	return b, nil
}

func (p *StaticProvider) BlocksByRange(ctx context.Context, start, end uint64) ([]BlockData, error) {
	p.mu.Lock()
	if err := p.nextFailure(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	blocks := make(map[uint64]BlockData, len(p.byHeight))
	for h, b := range p.byHeight {
		blocks[h] = b
	}
	p.mu.Unlock()

	out := make([]BlockData, 0, end-start+1)
	for h := start; h <= end; h++ {
		b, ok := blocks[h]
		if !ok {
			return nil, &xmrerrors.ProviderPermanentError{Message: "no such block"}
		}
		out = append(out, b)
	}
	return out, nil
}
