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

// Package client implements the user-facing handles a Batcher is owned
// by: Session and Transaction. Transaction exposes an explicit
// prepare-then-callback contract, because the Batcher's dispatch gate
// must be able to yield mid-flush and be re-entered once the
// transaction coordinator is ready, rather than block a goroutine
// waiting on it.
package client

import (
	"time"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/saumyaprakash/yugabyte-db/ybclock"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// PrepareCallback is invoked exactly once if Prepare returns false
// (not yet ready), re-entering the batcher's dispatch with initial set
// to false.
type PrepareCallback func(err error)

// Transaction gates a Batcher's dispatch behind a prepare step and is
// notified when a flush completes. A Batcher with no attached
// Transaction passes through TransactionPrepare to TransactionReady
// without waiting.
type Transaction interface {
	// Prepare reports whether the transaction is ready for groups to be
	// dispatched. If it returns false, the transaction has taken
	// ownership of cb and will invoke it exactly once when ready (or
	// with a non-nil err if preparation failed, which aborts the batch).
	// initial distinguishes the first prepare attempt of a flush from a
	// callback-driven re-entry.
	Prepare(
		groups []ybqlpb.Group,
		forceConsistentRead bool,
		deadline time.Time,
		initial bool,
		cb PrepareCallback,
	) bool

	// ExpectOperations informs the transaction coordinator how many
	// operations this flush is about to dispatch, so it can track
	// write-intent accounting ahead of individual RPC completions.
	ExpectOperations(n int)

	// Flushed notifies the transaction that ops have finished (with
	// status) and hands back the read point the tablet servers reported.
	Flushed(ops []ybqlpb.Operation, readTime ybclock.HybridTime, status error)

	// Trace returns the span RPCs dispatched under this transaction
	// should be attached to as children.
	Trace() opentracing.Span
}
