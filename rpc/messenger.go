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

// Package rpc implements the transport the Batcher dispatches grouped
// operations through: Messenger and ProxyCache, split between local
// in-process dispatch and a real gRPC dial, covering the three RPC
// kinds a resolved operation group can need (write, strong read,
// consistent-prefix read).
package rpc

import (
	"time"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybclock"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// SendOptions describes how a single per-tablet RPC should be sent.
// ProxyCache dials the tablet's current leader directly; replica
// selection belongs to the meta-cache, not the Batcher's transport, so
// there is no retry-ordering or replica-fanout state here.
type SendOptions struct {
	Deadline        time.Time
	AllowLocalCalls bool
	Trace           opentracing.Span
}

// PerRowError attaches a status to the operation at RowIndex within the
// batch that produced it.
type PerRowError struct {
	RowIndex int
	Status   error
}

// Response is what a Messenger call hands back to the Batcher for one
// per-tablet RPC: an overall RPC status plus any per-row statuses, and
// the propagated hybrid time a write response carries for ybclock.
type Response struct {
	Status                  error
	PerRowErrors            []PerRowError
	PropagatedHybridTime    ybclock.HybridTime
	HasPropagatedHybridTime bool
}

// Callback is invoked exactly once with the outcome of one per-tablet
// RPC.
type Callback func(Response)

// Messenger is the transport dependency the Batcher dispatches grouped
// operations through. The three methods mirror the three RPC classes a
// resolved operation group can belong to (ybqlpb.GroupWrite /
// GroupLeaderRead / GroupConsistentPrefixRead).
type Messenger interface {
	SendWrite(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback)
	SendLeaderRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback)
	SendConsistentPrefixRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback)
}
