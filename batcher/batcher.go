// Copyright 2014 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package batcher implements the Batcher: resolves a stream of
// user-issued row operations to tablets, groups the resolved operations
// into per-tablet RPCs, dispatches them, and aggregates their outcomes
// into one flush result.
//
// A non-reentrant lock guards the state machine: a struct with an
// internal mutex, atomics for the one field that must be readable off
// the lock, and fire-and-forget callbacks for every slow dependency.
// Logging goes through internal/log and errors through
// github.com/cockroachdb/errors.
package batcher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/saumyaprakash/yugabyte-db/client"
	"github.com/saumyaprakash/yugabyte-db/errcollect"
	"github.com/saumyaprakash/yugabyte-db/internal/config"
	"github.com/saumyaprakash/yugabyte-db/internal/keyencoding"
	"github.com/saumyaprakash/yugabyte-db/internal/log"
	"github.com/saumyaprakash/yugabyte-db/internal/metrics"
	"github.com/saumyaprakash/yugabyte-db/internal/syncutil"
	"github.com/saumyaprakash/yugabyte-db/master"
	"github.com/saumyaprakash/yugabyte-db/rpc"
	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybclock"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// State is the Batcher's lifecycle state.
type State int32

const (
	GatheringOps State = iota
	ResolvingTablets
	TransactionPrepare
	TransactionReady
	Complete
	Aborted
)

func (s State) String() string {
	switch s {
	case GatheringOps:
		return "GatheringOps"
	case ResolvingTablets:
		return "ResolvingTablets"
	case TransactionPrepare:
		return "TransactionPrepare"
	case TransactionReady:
		return "TransactionReady"
	case Complete:
		return "Complete"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

func (s State) terminal() bool { return s == Complete || s == Aborted }

// FlushCallback is run exactly once when a flush settles.
type FlushCallback func(error)

// TabletResolver is the subset of master.MetaCache the Batcher depends
// on, kept as an interface -- separately from the concrete
// *master.MetaCache -- so tests can substitute a golang/mock double
// instead of a real cache.
type TabletResolver interface {
	LookupTabletByKey(ctx context.Context, table ybqlpb.Table, partitionKey []byte, deadline time.Time, cb master.LookupCallback)
	InvalidateTableCache(table ybqlpb.Table)
}

// Deps bundles the Batcher's external collaborators. Transaction,
// Clock, Metrics and RunCallback are optional; everything else is
// required.
type Deps struct {
	Session     client.Session
	Transaction client.Transaction
	Clock       ybclock.Clock
	MetaCache   TabletResolver
	Messenger   rpc.Messenger
	Errors      *errcollect.Collector
	Metrics     *metrics.Batcher
	Config      config.Config

	// ForceConsistentRead is the "force-consistent-read is set" input
	// to the consistent-read decision.
	ForceConsistentRead bool

	// RunCallback submits the flush callback to the client's callback
	// thread-pool. A nil RunCallback runs the callback inline, which is
	// also the fallback when submission fails.
	RunCallback func(context.Context, func())
}

// Batcher is the coordinator of a single flush. A Batcher instance has
// a single-use lifecycle: create it, Add operations, FlushAsync once,
// done.
type Batcher struct {
	session   client.Session
	txn       client.Transaction
	clock     ybclock.Clock
	metaCache TabletResolver
	messenger rpc.Messenger
	errColl   *errcollect.Collector
	metrics   *metrics.Batcher
	cfg       config.Config
	runCB     func(context.Context, func())

	forceConsistentRead bool

	// hadErrors is read outside the lock by the dispatch gate and by
	// Session.FlushFinished diagnostics, so it is kept atomic rather
	// than guarded by mu.
	hadErrors int32

	mu struct {
		syncutil.Mutex

		state    State
		deadline time.Time
		nextSeq  int64

		admitted map[*InFlightOp]struct{}
		ready    []*InFlightOp

		outstandingLookups int
		combinedError      error
		combinedErrorCode  ErrorCode

		flushCallback FlushCallback
		flushStarted  time.Time
		isRetry       bool
	}
}

// New returns a Batcher in state GatheringOps, ready to accept Adds.
//
// The Batcher keeps a direct reference to deps.Session rather than a
// weak one: Go has no idiomatic weak-pointer type predating the
// runtime/weak package, and this driver's ownership shape already
// guarantees a Batcher is never retained past its session's lifetime (a
// Session never hands out a Batcher it has stopped tracking), so the
// weak/strong distinction has no observable effect here. See
// DESIGN.md's Open Questions for the full justification.
func New(deps Deps) *Batcher {
	b := &Batcher{
		session:             deps.Session,
		txn:                 deps.Transaction,
		clock:               deps.Clock,
		metaCache:           deps.MetaCache,
		messenger:           deps.Messenger,
		errColl:             deps.Errors,
		metrics:             deps.Metrics,
		cfg:                 deps.Config,
		runCB:               deps.RunCallback,
		forceConsistentRead: deps.ForceConsistentRead,
	}
	b.mu.admitted = make(map[*InFlightOp]struct{})
	b.mu.state = GatheringOps
	if deps.Config.DefaultDeadline > 0 {
		b.mu.deadline = time.Now().Add(deps.Config.DefaultDeadline)
	}
	return b
}

// SetDeadline sets the deadline used for dependent lookups and RPCs.
func (b *Batcher) SetDeadline(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mu.deadline = t
}

// HadErrors reports whether any op in this batcher has ever failed,
// used by the session for retry-on-restart diagnostics.
func (b *Batcher) HadErrors() bool {
	return atomic.LoadInt32(&b.hadErrors) != 0
}

func (b *Batcher) markHadErrors() {
	atomic.StoreInt32(&b.hadErrors, 1)
}

// HasPendingOperations reports whether the admitted set is non-empty.
func (b *Batcher) HasPendingOperations() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mu.admitted) > 0
}

// CountBufferedOperations reports how many admitted ops are currently
// waiting in the ready queue for dispatch.
func (b *Batcher) CountBufferedOperations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mu.ready)
}

// Close releases the Batcher. The caller must guarantee every RPC this
// Batcher ever dispatched has already reported back; with
// Config.DebugAssertions on, Close panics if any op is still admitted,
// the same way a debug build's destructor would CHECK the op list is
// empty. With Config.DebugAssertions off (the production default) this
// is a no-op, since the check is diagnostic only and never something a
// caller should depend on for correctness.
func (b *Batcher) Close() {
	if !b.cfg.DebugAssertions {
		return
	}
	b.mu.Lock()
	n := len(b.mu.admitted)
	b.mu.Unlock()
	if n > 0 {
		panic(errors.Newf("Batcher.Close called with %d operations still admitted", n))
	}
}

// GetAndClearPendingErrors drains the error collector.
func (b *Batcher) GetAndClearPendingErrors() []errcollect.Error {
	return b.errColl.GetAndClear()
}

// Add admits one operation. It fails if the batcher is not in
// GatheringOps, or if the op's partition key, partition-list refresh
// check, or hash code cannot be read; a failed Add admits nothing.
func (b *Batcher) Add(ctx context.Context, op ybqlpb.Operation) error {
	partitionKey, err := op.GetPartitionKey()
	if err != nil {
		return errors.Wrap(err, "extracting partition key")
	}

	if needsRefresh, err := op.MaybeRefreshTablePartitionList(); err != nil {
		return errors.Wrap(err, "checking partition list refresh")
	} else if needsRefresh {
		b.metaCache.InvalidateTableCache(op.Table())
	}

	if op.Table().PartitionSchemeKind() == ybqlpb.HashPartitioned {
		code, err := keyencoding.DecodeHashCode(partitionKey)
		if err != nil {
			return errors.Wrap(err, "decoding hash code")
		}
		op.SetHashCode(code)
	}

	b.mu.Lock()
	if b.mu.state != GatheringOps {
		state := b.mu.state
		b.mu.Unlock()
		return newCodedError(CodeAddInWrongState, "Add called while batcher is in state %s", state)
	}
	seq := b.mu.nextSeq
	b.mu.nextSeq++
	flight := newInFlightOp(op, partitionKey, seq)
	b.mu.admitted[flight] = struct{}{}
	b.mu.outstandingLookups++
	deadline := b.mu.deadline
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.OpsInFlight.Inc()
		b.metrics.OutstandingLookups.Inc()
	}

	if resolved, ok := op.ResolvedTablet(); ok {
		b.onLookupComplete(ctx, flight, resolved, nil)
		return nil
	}

	b.metaCache.LookupTabletByKey(ctx, op.Table(), partitionKey, deadline, func(t *tablet.RemoteTablet, err error) {
		b.onLookupComplete(ctx, flight, t, err)
	})
	return nil
}

// onLookupComplete is the completion handler for a tablet lookup,
// invoked exactly once per admitted op, whether the lookup was
// dispatched through the meta-cache or short-circuited via
// Operation.ResolvedTablet.
func (b *Batcher) onLookupComplete(ctx context.Context, f *InFlightOp, t *tablet.RemoteTablet, lookupErr error) {
	var failStatus error
	var allLookupsFinished bool
	var aborted bool
	var buffered bool

	b.mu.Lock()
	b.mu.outstandingLookups--
	allLookupsFinished = b.mu.outstandingLookups == 0

	if b.mu.state == Aborted {
		aborted = true
		failStatus = newCodedError(CodeAborted, "batch aborted")
	} else if lookupErr != nil {
		if errors.Is(lookupErr, master.ErrPartitionListStale) {
			f.Op.MarkTablePartitionListAsStale()
		}
		failStatus = lookupErr
	} else if !t.Partition.ContainsKey(f.PartitionKey) {
		failStatus = newCodedError(CodeRowNotInPartition,
			"tablet %s returned by lookup does not contain partition key for op %s", t.TabletID, f.Op)
	} else {
		f.Tablet = t
		if f.tryMarkBuffered() {
			b.mu.ready = append(b.mu.ready, f)
			buffered = true
		} else {
			// Abort raced us and already moved this op to a terminal
			// state; treat it the same as observing Aborted above.
			aborted = true
			failStatus = newCodedError(CodeAborted, "batch aborted")
		}
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.OutstandingLookups.Dec()
		if buffered {
			b.metrics.BufferedOps.Inc()
		}
	}

	if failStatus != nil {
		b.failOpLocked(ctx, f, failStatus)
		if !aborted {
			log.VInfof(ctx, 2, "tablet lookup failed for op %s: %s", f.Op, failStatus)
		}
		b.checkFinishedFlush(ctx)
	}

	if allLookupsFinished {
		b.flushBuffersIfReady(ctx, true)
	}
}

// failOpLocked records a terminal failure for f: combines the error
// into the collector, marks hadErrors, and removes f from the admitted
// set. Despite the name it acquires the lock itself -- "Locked" here
// names the invariant it restores (f leaves the admitted set under the
// lock), not a precondition on the caller.
func (b *Batcher) failOpLocked(ctx context.Context, f *InFlightOp, status error) {
	b.combineError(status)
	b.errColl.Add(f.Op, status)
	b.markHadErrors()

	b.mu.Lock()
	f.Err = status
	delete(b.mu.admitted, f)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.OpsInFlight.Dec()
	}
}

// combineError implements the error combination policy: per-op errors
// always go to the collector (done by the caller); this only maintains
// the optional diagnostic combinedError slot.
func (b *Batcher) combineError(status error) {
	if !b.cfg.DiagnosticCombinedErrors {
		return
	}
	code, _ := CodeOf(status)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mu.combinedError == nil {
		b.mu.combinedError = status
		b.mu.combinedErrorCode = code
		return
	}
	if b.mu.combinedErrorCode != code {
		b.mu.combinedError = errCombinedMultipleFailures
	}
}
