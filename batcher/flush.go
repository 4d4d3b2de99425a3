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

package batcher

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/saumyaprakash/yugabyte-db/internal/log"
	"github.com/saumyaprakash/yugabyte-db/rpc"
	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// opGroup is a maximal contiguous run of the sorted ready queue sharing
// one (tablet, op-group kind) -- the glossary's "Group" -- which
// becomes exactly one outgoing RPC.
type opGroup struct {
	tablet *tablet.RemoteTablet
	kind   ybqlpb.Group
	ops    []*InFlightOp
}

// FlushAsync begins a flush. It must be called exactly once per
// Batcher.
func (b *Batcher) FlushAsync(ctx context.Context, cb FlushCallback, isWithinTransactionRetry bool) {
	b.mu.Lock()
	if b.mu.state != GatheringOps {
		state := b.mu.state
		b.mu.Unlock()
		panic(errors.Newf("FlushAsync called while batcher is in state %s", state))
	}
	b.mu.state = ResolvingTablets
	b.mu.flushCallback = cb
	b.mu.isRetry = isWithinTransactionRetry
	b.mu.flushStarted = time.Now()
	admittedCount := len(b.mu.admitted)
	b.mu.Unlock()

	b.session.FlushStarted(b)

	if b.txn != nil && !isWithinTransactionRetry {
		b.txn.ExpectOperations(admittedCount)
	}

	b.checkFinishedFlush(ctx)
	b.flushBuffersIfReady(ctx, true)
}

// flushBuffersIfReady is the dispatch gate.
func (b *Batcher) flushBuffersIfReady(ctx context.Context, initial bool) {
	b.mu.Lock()
	if b.mu.outstandingLookups > 0 {
		b.mu.Unlock()
		return
	}
	if b.mu.state != ResolvingTablets {
		b.mu.Unlock()
		return
	}
	if len(b.mu.ready) == 0 {
		b.mu.state = TransactionReady
		b.mu.Unlock()
		b.checkFinishedFlush(ctx)
		return
	}
	b.mu.state = TransactionPrepare
	b.mu.Unlock()

	if b.HadErrors() {
		b.abort(ctx, newCodedError(CodeAbortedBatchFailedLookup, "aborted batch due to failed tablet lookup"))
		return
	}

	b.executeOperations(ctx, initial)
}

// executeOperations performs the sort/group, the partition-list
// version gate, the transactional prepare, and -- once the transaction
// (if any) reports readiness -- the per-group RPC creation and
// dispatch. It is re-entered with initial=false from the transaction's
// Prepare callback; re-running sort/group on re-entry is harmless,
// since the ready queue is untouched until dispatch actually clears it.
func (b *Batcher) executeOperations(ctx context.Context, initial bool) {
	groups, snapshot, err := b.sortAndGroup()
	if err != nil {
		b.abort(ctx, err)
		return
	}

	deadline := b.deadline()
	forceConsistent := b.forceConsistentRead || b.txn != nil || len(groups) > 1

	if b.txn != nil {
		groupKinds := make([]ybqlpb.Group, len(groups))
		for i, g := range groups {
			groupKinds[i] = g.kind
		}
		ready := b.txn.Prepare(groupKinds, forceConsistent, deadline, initial, func(prepErr error) {
			if prepErr != nil {
				b.abort(ctx, errors.Wrap(prepErr, "transaction prepare failed"))
				return
			}
			b.executeOperations(ctx, false)
		})
		if !ready {
			return
		}
	}

	b.dispatch(ctx, groups, snapshot, deadline)
}

// sortAndGroup sorts the ready queue by (tablet, op-group kind,
// sequence) into maximal contiguous groups, and checks each op's
// partition-list version against its resolved tablet along the way.
func (b *Batcher) sortAndGroup() ([]*opGroup, []*InFlightOp, error) {
	b.mu.Lock()
	ready := make([]*InFlightOp, len(b.mu.ready))
	copy(ready, b.mu.ready)
	b.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool {
		a, c := ready[i], ready[j]
		if a.Tablet.TabletID != c.Tablet.TabletID {
			return a.Tablet.TabletID < c.Tablet.TabletID
		}
		if a.Op.Group() != c.Op.Group() {
			return a.Op.Group() < c.Op.Group()
		}
		return a.Sequence < c.Sequence
	})

	var groups []*opGroup
	for _, f := range ready {
		if version, ok := f.Op.PartitionListVersion(); ok && version != f.Tablet.PartitionListVersion {
			return nil, ready, newCodedError(CodePartitionListVersionMismatch,
				"partition list version mismatch for tablet %s: op expected version %d, tablet is at %d",
				f.Tablet.TabletID, version, f.Tablet.PartitionListVersion)
		}
		if len(groups) == 0 ||
			groups[len(groups)-1].tablet.TabletID != f.Tablet.TabletID ||
			groups[len(groups)-1].kind != f.Op.Group() {
			groups = append(groups, &opGroup{tablet: f.Tablet, kind: f.Op.Group()})
		}
		last := groups[len(groups)-1]
		last.ops = append(last.ops, f)
	}
	return groups, ready, nil
}

// dispatch clears the ready queue under the lock (with a diagnostic mutation check),
// transitions to TransactionReady, and sends each group's RPC outside
// the lock. Only the final group may use the local-call optimization,
// so an earlier group's recursive local dispatch can't block on a
// later group that still needs to return.
func (b *Batcher) dispatch(ctx context.Context, groups []*opGroup, snapshot []*InFlightOp, deadline time.Time) {
	b.mu.Lock()
	if len(b.mu.ready) != len(snapshot) {
		log.Errorf(ctx, "ready queue mutated concurrently during dispatch: had %d ops, built groups from %d",
			len(b.mu.ready), len(snapshot))
	}
	b.mu.ready = nil
	b.mu.state = TransactionReady
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.BufferedOps.Set(0)
	}

	for i, g := range groups {
		opts := rpc.SendOptions{Deadline: deadline, AllowLocalCalls: i == len(groups)-1}
		if b.txn != nil {
			opts.Trace = b.txn.Trace()
		}
		ops := make([]ybqlpb.Operation, len(g.ops))
		for j, f := range g.ops {
			ops[j] = f.Op
		}

		group := g
		cb := func(resp rpc.Response) { b.onRPCComplete(ctx, group, resp) }

		switch g.kind {
		case ybqlpb.GroupWrite:
			b.messenger.SendWrite(g.tablet, ops, opts, cb)
		case ybqlpb.GroupLeaderRead:
			b.messenger.SendLeaderRead(g.tablet, ops, opts, cb)
		case ybqlpb.GroupConsistentPrefixRead:
			b.messenger.SendConsistentPrefixRead(g.tablet, ops, opts, cb)
		}
	}
}

func (b *Batcher) deadline() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mu.deadline
}

// checkFinishedFlush fires the flush callback once every admitted op
// has settled.
func (b *Batcher) checkFinishedFlush(ctx context.Context) {
	b.mu.Lock()
	if len(b.mu.admitted) > 0 {
		b.mu.Unlock()
		return
	}
	state := b.mu.state
	if state.terminal() || state == GatheringOps {
		b.mu.Unlock()
		return
	}
	if state != ResolvingTablets && state != TransactionReady {
		b.mu.Unlock()
		log.Errorf(ctx, "finished-flush check found unexpected state %s with an empty admitted set", state)
		return
	}
	b.mu.state = Complete
	cb := b.mu.flushCallback
	b.mu.flushCallback = nil
	combined := b.mu.combinedError
	started := b.mu.flushStarted
	b.mu.Unlock()

	if b.session != nil {
		b.session.FlushFinished(b)
	}

	var status error
	switch {
	case combined != nil:
		status = combined
	case b.HadErrors():
		status = errReachingTabletServers
	}

	if b.metrics != nil && !started.IsZero() {
		b.metrics.FlushLatency.Observe(time.Since(started).Seconds())
	}

	if cb == nil {
		return
	}
	if b.runCB != nil {
		b.runCB(ctx, func() { cb(status) })
	} else {
		cb(status)
	}
}
