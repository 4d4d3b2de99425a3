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

	"github.com/saumyaprakash/yugabyte-db/internal/log"
	"github.com/saumyaprakash/yugabyte-db/rpc"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// onRPCComplete is the completion callback for one per-tablet RPC. It
// combines whole-RPC and per-row failures into the ops the RPC
// carried, then removes those ops from the admitted set.
func (b *Batcher) onRPCComplete(ctx context.Context, g *opGroup, resp rpc.Response) {
	b.mu.Lock()
	state := b.mu.state
	b.mu.Unlock()
	if state != TransactionReady {
		log.Errorf(ctx, "RPC completion for tablet %s arrived in state %s, dropping", g.tablet.TabletID, state)
		return
	}

	if resp.Status != nil {
		for _, f := range g.ops {
			b.combineOpError(f, resp.Status)
		}
	}

	for _, rowErr := range resp.PerRowErrors {
		if rowErr.RowIndex < 0 || rowErr.RowIndex >= len(g.ops) {
			log.Errorf(ctx, "per-row error for out-of-bounds row index %d in a group of %d ops on tablet %s",
				rowErr.RowIndex, len(g.ops), g.tablet.TabletID)
			continue
		}
		b.combineOpError(g.ops[rowErr.RowIndex], rowErr.Status)
	}

	b.removeInFlightOpsAfterFlushing(ctx, g, resp)
}

// combineOpError attaches status to f's per-op bookkeeping. Removal
// from the admitted set happens uniformly in
// removeInFlightOpsAfterFlushing once the whole RPC has been processed,
// not here, so a per-row error and a whole-RPC failure on the same op
// never race to delete the same map entry twice.
func (b *Batcher) combineOpError(f *InFlightOp, status error) {
	f.Err = status
	b.errColl.Add(f.Op, status)
	b.combineError(status)
	b.markHadErrors()
}

// removeInFlightOpsAfterFlushing notifies the transaction these ops
// flushed, unless resp.Status is one the session will retry (in which
// case notifying now would double-count the ops once the retry's own
// Batcher flushes them), updates the read point on success, and
// removes each op from the admitted set under the lock.
func (b *Batcher) removeInFlightOpsAfterFlushing(ctx context.Context, g *opGroup, resp rpc.Response) {
	if b.txn != nil && !isRetriableStatus(resp.Status) {
		ops := make([]ybqlpb.Operation, len(g.ops))
		for i, f := range g.ops {
			ops[i] = f.Op
		}
		b.txn.Flushed(ops, resp.PropagatedHybridTime, resp.Status)
	}

	if resp.Status == nil && resp.HasPropagatedHybridTime && b.clock != nil {
		b.clock.UpdateClock(resp.PropagatedHybridTime)
	}

	b.mu.Lock()
	for _, f := range g.ops {
		delete(b.mu.admitted, f)
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.OpsInFlight.Sub(float64(len(g.ops)))
	}

	b.checkFinishedFlush(ctx)
}
