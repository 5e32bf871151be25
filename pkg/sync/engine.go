// Package sync implements the wallet core's sync engine: it pulls blocks
// from a BlockProvider in bounded batches, feeds their transactions
// through a scanner.Scanner, persists progress and owned outputs via a
// storage.WalletStorage, detects and recovers from reorgs, retries
// transient provider failures with backoff, and emits a progress/event
// stream to subscribers. The engine is a single logical actor: all state
// transitions and storage writes are serialized through one goroutine's
// call to Start, even though scanning within a batch is parallelized.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/study/monero-wallet-core/pkg/provider"
	"github.com/study/monero-wallet-core/pkg/scanner"
	"github.com/study/monero-wallet-core/pkg/storage"
	"github.com/study/monero-wallet-core/pkg/wallet"
	"github.com/study/monero-wallet-core/pkg/xmrerrors"
)

// Engine drives one wallet's sync loop. Only one Start runs at a time on
// the same Engine: a call made while another is running returns an error
// at once. Subscribing and reading Snapshot are safe at any time.
type Engine struct {
	cfg      Config
	provider provider.BlockProvider
	storage  storage.WalletStorage
	scanner  *scanner.Scanner
	logger   *zap.Logger
	bus      *eventBus

	mu    sync.Mutex
	state State

	running sync.Mutex // held for the duration of Start, to reject concurrent calls
}

// NewEngine builds an Engine. logger may be nil, in which case a no-op
// logger is used.
func NewEngine(cfg Config, p provider.BlockProvider, st storage.WalletStorage, sc *scanner.Scanner, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:      cfg,
		provider: p,
		storage:  st,
		scanner:  sc,
		logger:   logger,
		bus:      newEventBus(cfg.EventBufferSize),
		state:    State{Phase: PhaseIdle},
	}
}

// Subscribe registers a new consumer of the engine's event stream and
// returns its channel plus an unsubscribe function.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	return e.bus.subscribe()
}

// Snapshot returns the engine's current state without subscribing, for
// synchronous callers that don't want to hold a subscription open.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.bus.publish(Event{Kind: EventSyncStateChanged, State: s})
}

func (e *Engine) fail(err error) error {
	e.setState(State{Phase: PhaseError, Message: err.Error(), Cause: err})
	return err
}

// failOrCancel routes a cancelled provider call to the same clean
// PhaseIdle/ErrCancelled terminal state as the loop-top and BatchDelay
// cancellation checks, instead of treating it as a PhaseError. Any other
// error still goes through fail.
func (e *Engine) failOrCancel(err error) error {
	if errors.Is(err, xmrerrors.ErrCancelled) {
		e.setState(State{Phase: PhaseIdle})
		return xmrerrors.ErrCancelled
	}
	return e.fail(err)
}

// Start runs the sync loop to completion: it syncs from the last
// persisted height up to the provider's tip, re-checking the tip as it
// goes, and returns when Synced, when ctx is cancelled
// (xmrerrors.ErrCancelled), or when a permanent or storage error occurs.
// Calling Start again after Error or Cancelled resumes from the last
// persisted height.
func (e *Engine) Start(ctx context.Context) error {
	if !e.running.TryLock() {
		return errors.New("xmr: sync engine already running")
	}
	defer e.running.Unlock()

	runID := uuid.New()
	logger := e.logger.With(zap.String("run_id", runID.String()))

	resumeFromRaw, err := e.storage.LastSyncedHeight()
	if err != nil {
		return e.fail(&xmrerrors.StorageError{Op: "LastSyncedHeight", Cause: err})
	}
	neverSynced := resumeFromRaw < 0
	var resumeFrom uint64
	if neverSynced {
		resumeFrom = e.cfg.ScanFromHeight
	} else {
		resumeFrom = uint64(resumeFromRaw)
	}

	target, err := callWithRetry(ctx, e.cfg, logger, "Height", e.provider.Height)
	if err != nil {
		return e.failOrCancel(err)
	}

	// Re-verify the previously synced tip before deciding there's nothing
	// to do: a reorg that only replaces already-synced heights (without
	// extending the chain) would otherwise never be noticed.
	if !neverSynced {
		hStar, rolled, err := e.verifyTip(ctx, logger, resumeFrom)
		if err != nil {
			return e.failOrCancel(err)
		}
		if rolled {
			resumeFrom = hStar
		}
	}

	if resumeFrom >= target {
		e.setState(State{Phase: PhaseSynced, Height: target})
		return nil
	}

	startTime := time.Now()
	current := resumeFrom
	if !neverSynced {
		current = resumeFrom + 1
	}
	e.setState(State{Phase: PhaseSyncing, Current: current, Target: target, StartTime: startTime})

	for {
		if ctx.Err() != nil {
			e.setState(State{Phase: PhaseIdle})
			return xmrerrors.ErrCancelled
		}

		if current > target {
			newTarget, err := callWithRetry(ctx, e.cfg, logger, "Height", e.provider.Height)
			if err != nil {
				return e.failOrCancel(err)
			}
			if newTarget > target {
				target = newTarget
				continue
			}
			e.setState(State{Phase: PhaseSynced, Height: target})
			return nil
		}

		end := current + e.cfg.BatchSize - 1
		if end > target {
			end = target
		}

		start, endH := current, end
		batch, err := callWithRetry(ctx, e.cfg, logger, "BlocksByRange", func(c context.Context) ([]provider.BlockData, error) {
			return e.provider.BlocksByRange(c, start, endH)
		})
		if err != nil {
			return e.failOrCancel(err)
		}

		lastHeight, rollbackTo, err := e.processBatch(ctx, logger, batch, current, target, resumeFrom, startTime)
		if err != nil {
			return e.failOrCancel(err)
		}
		if rollbackTo != nil {
			current = *rollbackTo + 1
			continue
		}
		current = lastHeight + 1

		if e.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				e.setState(State{Phase: PhaseIdle})
				return xmrerrors.ErrCancelled
			case <-time.After(e.cfg.BatchDelay):
			}
		}
	}
}

// verifyTip checks whether the block stored at height still matches the
// provider's chain. If it doesn't, that's a reorg that never extended the
// chain past the last synced height, so it would otherwise go unnoticed by
// processBatch's first-block check alone. Returns the rollback height h*
// and rolled=true if a reorg was found and handled.
func (e *Engine) verifyTip(ctx context.Context, logger *zap.Logger, height uint64) (hStar uint64, rolled bool, err error) {
	storedHash, ok, err := e.storage.BlockHash(height)
	if err != nil {
		return 0, false, &xmrerrors.StorageError{Op: "BlockHash", Cause: err}
	}
	if !ok {
		return 0, false, nil
	}
	remote, err := callWithRetry(ctx, e.cfg, logger, "BlockByHeight", func(c context.Context) (provider.BlockData, error) {
		return e.provider.BlockByHeight(c, height)
	})
	if err != nil {
		return 0, false, err
	}
	if storedHash == remote.Hash {
		return 0, false, nil
	}
	h, err := e.handleReorg(ctx, logger, height)
	if err != nil {
		return 0, false, err
	}
	return h, true, nil
}

// processBatch applies the reorg check, scans, and persists one batch of
// blocks starting at batchStart. If a reorg is detected it returns the
// rollback height h* and a zero lastHeight; the caller resumes the loop
// from h*+1. A ProgressUpdate event is published after each block.
func (e *Engine) processBatch(ctx context.Context, logger *zap.Logger, batch []provider.BlockData, batchStart, target, resumeFrom uint64, startTime time.Time) (lastHeight uint64, rollbackTo *uint64, err error) {
	if len(batch) == 0 {
		return batchStart - 1, nil, nil
	}

	first := batch[0]
	if first.Height > 0 {
		storedPrev, ok, err := e.storage.BlockHash(first.Height - 1)
		if err != nil {
			return 0, nil, &xmrerrors.StorageError{Op: "BlockHash", Cause: err}
		}
		if ok && storedPrev != first.PrevHash {
			hStar, err := e.handleReorg(ctx, logger, first.Height-1)
			if err != nil {
				return 0, nil, err
			}
			return 0, &hStar, nil
		}
	}

	for _, block := range batch {
		if err := e.scanAndPersistBlock(ctx, block, target); err != nil {
			return 0, nil, err
		}
		lastHeight = block.Height

		e.setState(State{
			Phase:     PhaseSyncing,
			Current:   lastHeight,
			Target:    target,
			Processed: lastHeight - resumeFrom,
			StartTime: startTime,
		})
		e.bus.publish(Event{Kind: EventProgressUpdate, Current: lastHeight, Target: target})
	}

	if err := e.storage.SetLastSyncedHeight(int64(lastHeight)); err != nil {
		return 0, nil, &xmrerrors.StorageError{Op: "SetLastSyncedHeight", Cause: err}
	}
	return lastHeight, nil, nil
}

// scanAndPersistBlock scans block's transactions concurrently (the
// engine's one CPU-bound parallelism point) and persists the results
// sequentially, in (txIndex, outputIndex) order, so output ordering stays
// deterministic regardless of goroutine scheduling.
func (e *Engine) scanAndPersistBlock(ctx context.Context, block provider.BlockData, target uint64) error {
	if err := e.storage.SetBlockHash(block.Height, block.Hash); err != nil {
		return &xmrerrors.StorageError{Op: "SetBlockHash", Cause: err}
	}

	matches := make([][]scanner.Match, len(block.Transactions))
	g, _ := errgroup.WithContext(ctx)
	for i := range block.Transactions {
		i := i
		tx := block.Transactions[i]
		g.Go(func() error {
			matches[i] = e.scanner.ScanTransaction(&tx)
			return nil
		})
	}
	_ = g.Wait() // ScanTransaction is pure and never errors

	confirmed := int64(target)-int64(block.Height) >= int64(e.cfg.Confirmations)

	for i, tx := range block.Transactions {
		for _, m := range matches[i] {
			out := storage.OwnedOutput{
				TxHash:      tx.Hash,
				OutputIndex: m.OutputIndex,
				GlobalIndex: m.GlobalIndex,
				PublicKey:   m.PublicKey.Bytes(),
				BlockHeight: block.Height,
				Timestamp:   block.Timestamp,
				SubaddressIndex: wallet.SubaddressIndex{
					Major: m.Subaddress.Major,
					Minor: m.Subaddress.Minor,
				},
				Confirmed: confirmed,
			}.WithKeyImage(m.KeyImage)

			if err := e.storage.SaveOutput(out); err != nil {
				return &xmrerrors.StorageError{Op: "SaveOutput", Cause: err}
			}
			e.bus.publish(Event{Kind: EventOutputReceived, Output: out})
		}
		for _, ki := range tx.Inputs {
			if err := e.storage.MarkOutputSpent(ki); err != nil {
				return &xmrerrors.StorageError{Op: "MarkOutputSpent", Cause: err}
			}
		}
	}
	return nil
}

// handleReorg walks backward from height current, comparing stored block
// hashes to the provider's, until it finds agreement at h*. It rolls
// storage back to h* and emits ReorgDetected.
func (e *Engine) handleReorg(ctx context.Context, logger *zap.Logger, current uint64) (uint64, error) {
	h := current
	for {
		storedHash, ok, err := e.storage.BlockHash(h)
		if err != nil {
			return 0, &xmrerrors.StorageError{Op: "BlockHash", Cause: err}
		}
		if !ok {
			if h == 0 {
				break
			}
			h--
			continue
		}
		remote, err := callWithRetry(ctx, e.cfg, logger, "BlockByHeight", func(c context.Context) (provider.BlockData, error) {
			return e.provider.BlockByHeight(c, h)
		})
		if err != nil {
			return 0, err
		}
		if storedHash == remote.Hash {
			break
		}
		if h == 0 {
			break
		}
		h--
	}

	if err := e.storage.RollbackToHeight(int64(h)); err != nil {
		return 0, &xmrerrors.StorageError{Op: "RollbackToHeight", Cause: err}
	}
	logger.Warn("reorg detected", zap.Uint64("from", h), zap.Uint64("to", current))
	e.bus.publish(Event{Kind: EventReorgDetected, FromHeight: h, ToHeight: current})
	return h, nil
}

// callWithRetry wraps a provider call with the exponential-backoff retry
// policy: retries only on xmrerrors.ProviderTransientError, up to
// cfg.MaxRetries times, when cfg.AutoRetry is set. Permanent errors and
// exhausted retries are returned as-is. If ctx is cancelled while a call
// is in flight or while waiting out a retry delay, it returns
// xmrerrors.ErrCancelled rather than the raw context or provider error,
// so callers can route cancellation to a clean terminal state instead of
// treating it as a provider failure.
func callWithRetry[T any](ctx context.Context, cfg Config, logger *zap.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	delay := cfg.RetryBaseDelay
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, cfg.ProviderTimeout)
		result, err := fn(callCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return zero, xmrerrors.ErrCancelled
		}

		var transient *xmrerrors.ProviderTransientError
		if !errors.As(err, &transient) || !cfg.AutoRetry || attempt >= cfg.MaxRetries {
			return zero, err
		}

		wait := delay
		if transient.RetryAfter > 0 {
			wait = time.Duration(transient.RetryAfter * float64(time.Second))
		}
		logger.Warn("transient provider error, retrying",
			zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, xmrerrors.ErrCancelled
		case <-time.After(wait):
		}

		delay *= 2
		if delay > cfg.RetryMaxDelay {
			delay = cfg.RetryMaxDelay
		}
	}
}
