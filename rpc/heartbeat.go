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

package rpc

import (
	"context"
	"time"

	"github.com/saumyaprakash/yugabyte-db/ybclock"
)

// LivenessChecker reports whether a cached connection to addr is still
// good. ProxyCache consults it, when set, before reusing a pooled
// connection instead of redialing.
type LivenessChecker interface {
	Healthy(ctx context.Context, addr string) bool
}

// HeartbeatService pings a tablet server connection on demand to
// detect staleness. It reports whether the connection is still good
// rather than estimating clock offset, since ybclock.Clock is already
// ratcheted forward from response hybrid-times.
type HeartbeatService struct {
	clock   ybclock.Clock
	healthy func(addr string) bool
}

// NewHeartbeatService returns a HeartbeatService that reports a
// connection healthy per the supplied predicate. Pinging reads clock
// but never updates it.
func NewHeartbeatService(clock ybclock.Clock, healthy func(addr string) bool) *HeartbeatService {
	return &HeartbeatService{clock: clock, healthy: healthy}
}

// Ping reports whether addr is currently reachable and returns the
// clock's current hybrid time alongside the health signal.
func (hs *HeartbeatService) Ping(ctx context.Context, addr string) (ybclock.HybridTime, bool) {
	select {
	case <-ctx.Done():
		return hs.clock.Now(), false
	default:
	}
	return hs.clock.Now(), hs.healthy(addr)
}

// Healthy implements LivenessChecker.
func (hs *HeartbeatService) Healthy(ctx context.Context, addr string) bool {
	_, ok := hs.Ping(ctx, addr)
	return ok
}

// ManualHeartbeatService lets tests control exactly when a connection
// is reported healthy, instead of wiring up a real ping predicate.
type ManualHeartbeatService struct {
	ready chan struct{}
}

// NewManualHeartbeatService returns a ManualHeartbeatService that
// reports every address unhealthy until MarkReady is called.
func NewManualHeartbeatService() *ManualHeartbeatService {
	return &ManualHeartbeatService{ready: make(chan struct{})}
}

// MarkReady marks every address healthy from this point on.
func (m *ManualHeartbeatService) MarkReady() { close(m.ready) }

// WaitReady blocks until MarkReady is called or timeout elapses,
// reporting which happened first.
func (m *ManualHeartbeatService) WaitReady(ctx context.Context, timeout time.Duration) bool {
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-m.ready:
		return true
	case <-ctx.Done():
		return false
	}
}

// Healthy implements LivenessChecker: it reports ready without
// blocking, unlike WaitReady.
func (m *ManualHeartbeatService) Healthy(ctx context.Context, addr string) bool {
	select {
	case <-m.ready:
		return true
	default:
		return false
	}
}
