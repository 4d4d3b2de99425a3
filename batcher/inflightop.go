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
	"sync/atomic"
	"time"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// opState is an InFlightOp's per-op state, kept atomic so the
// LookingUpTablet -> BufferedToTabletServer transition can race safely
// against Abort without the batcher lock.
type opState int32

const (
	stateLookingUpTablet opState = iota
	stateBufferedToTabletServer
)

// InFlightOp is one admitted operation: the user's operation handle,
// its encoded partition key, its resolved tablet (filled in after
// lookup), its assigned sequence number, and its per-op state.
type InFlightOp struct {
	Op           ybqlpb.Operation
	PartitionKey []byte
	Sequence     int64

	// CreatedAt records when the op was admitted. It is diagnostic
	// only: nothing in this package reads it, and op ordering is
	// determined purely by Sequence.
	CreatedAt time.Time

	// Tablet is set once lookup succeeds. Reads/writes of this field
	// outside the atomic state transition are protected by the
	// batcher's lock, not by Tablet itself.
	Tablet *tablet.RemoteTablet

	// Err is the terminal status this op failed with, if any. Like
	// Tablet, guarded by the batcher lock except for the brief window
	// between state transition and lock acquisition during Abort.
	Err error

	state int32 // atomic opState
}

func newInFlightOp(op ybqlpb.Operation, partitionKey []byte, seq int64) *InFlightOp {
	return &InFlightOp{
		Op:           op,
		PartitionKey: partitionKey,
		Sequence:     seq,
		CreatedAt:    time.Now(),
		state:        int32(stateLookingUpTablet),
	}
}

// tryMarkBuffered attempts the LookingUpTablet -> BufferedToTabletServer
// transition. It fails if Abort already moved the op past
// LookingUpTablet.
func (f *InFlightOp) tryMarkBuffered() bool {
	return atomic.CompareAndSwapInt32(&f.state, int32(stateLookingUpTablet), int32(stateBufferedToTabletServer))
}

func (f *InFlightOp) isBuffered() bool {
	return atomic.LoadInt32(&f.state) == int32(stateBufferedToTabletServer)
}
