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

import "context"

// Abort cancels the batch with status. Multiple calls are idempotent:
// only the first sets state to Aborted and captures the pending
// callback, so only one invocation of the flush callback is ever
// produced.
func (b *Batcher) Abort(ctx context.Context, status error) {
	b.abort(ctx, status)
}

func (b *Batcher) abort(ctx context.Context, status error) {
	b.mu.Lock()
	if b.mu.state == Aborted {
		b.mu.Unlock()
		return
	}
	b.mu.state = Aborted

	var toFail []*InFlightOp
	for f := range b.mu.admitted {
		if f.isBuffered() {
			toFail = append(toFail, f)
		}
	}
	for _, f := range toFail {
		delete(b.mu.admitted, f)
	}

	cb := b.mu.flushCallback
	b.mu.flushCallback = nil
	b.mu.Unlock()

	b.markHadErrors()
	for _, f := range toFail {
		f.Err = status
		b.errColl.Add(f.Op, status)
	}
	b.combineError(status)

	if b.metrics != nil && len(toFail) > 0 {
		b.metrics.OpsInFlight.Sub(float64(len(toFail)))
	}

	if cb == nil {
		// Abort raced ahead of FlushAsync (or a prior Abort already
		// consumed it); there is nothing to invoke yet.
		return
	}
	if b.runCB != nil {
		b.runCB(ctx, func() { cb(status) })
	} else {
		cb(status)
	}
}
