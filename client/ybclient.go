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

package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/saumyaprakash/yugabyte-db/internal/config"
	"github.com/saumyaprakash/yugabyte-db/internal/log"
	"github.com/saumyaprakash/yugabyte-db/internal/metrics"
	"github.com/saumyaprakash/yugabyte-db/ybclock"
)

// YBClient is the client-wide handle a Batcher reaches its shared,
// cross-flush collaborators through: the callback thread-pool, clock
// update, retryable request id allocation, and the metrics every
// Batcher built against this client reports to.
// (Get/Put/Scan/... live on wrappers outside this module's scope).
type YBClient struct {
	Clock ybclock.Clock
	Cfg   config.Config

	// ID identifies this client instance for the lifetime of the
	// process. A monotonic counter alone repeats across restarts;
	// pairing it with ID keeps request ids collision-free for
	// server-side replay dedup even after a crash and reconnect.
	ID uuid.UUID

	// Metrics is shared across every Batcher this client constructs, so
	// BufferedOps/OpsInFlight/etc. reflect the client's whole fleet of
	// in-flight batchers rather than resetting per flush.
	Metrics *metrics.Batcher

	pool *callbackPool
	reqs RequestIDSeq
}

// NewYBClient returns a YBClient with its own clock, a fresh instance
// id, a callback thread-pool sized per cfg.CallbackPoolSize, and a
// metrics.Batcher registered on reg (nil is fine, including when reg is
// omitted entirely, and returns unregistered collectors).
func NewYBClient(cfg config.Config, reg ...prometheus.Registerer) *YBClient {
	var registerer prometheus.Registerer
	if len(reg) > 0 {
		registerer = reg[0]
	}
	c := &YBClient{
		Clock:   ybclock.New(),
		Cfg:     cfg,
		ID:      uuid.New(),
		Metrics: metrics.NewBatcher(registerer),
	}
	c.pool = newCallbackPool(cfg.CallbackPoolSize)
	return c
}

// RunCallback submits fn to the client's callback thread-pool,
// preferring to run the flush callback there; if submission fails it
// runs fn inline instead. Submission fails once the pool has been
// closed, or while its queue of pending callbacks is full.
func (c *YBClient) RunCallback(ctx context.Context, fn func()) {
	if !c.pool.submit(fn) {
		log.Warningf(ctx, "callback pool closed, running flush callback inline")
		fn()
	}
}

// Close stops the callback thread-pool, waiting for queued callbacks
// to drain.
func (c *YBClient) Close() {
	c.pool.close()
}

// RequestIDSeq allocates monotonically increasing, session-scoped
// request ids the way a retryable write needs to dedup server-side
// replays.
type RequestIDSeq struct {
	next int64
}

// Next returns the next request id in the sequence. Safe for
// concurrent use.
func (s *RequestIDSeq) Next() int64 {
	return atomic.AddInt64(&s.next, 1)
}

// RequestIDs returns the client's request id allocator.
func (c *YBClient) RequestIDs() *RequestIDSeq {
	return &c.reqs
}

// NextRequestID returns a request id combining the client's instance
// id with the next value from its monotonic sequence, unique across
// both concurrent callers and process restarts.
func (c *YBClient) NextRequestID() string {
	return fmt.Sprintf("%s-%d", c.ID, c.reqs.Next())
}

// callbackPool is a small fixed-size worker pool. Unlike a raw
// `go fn()` per callback, a bounded pool caps how many flush callbacks
// can run concurrently, which matters when a single session flushes
// thousands of batchers at once.
type callbackPool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	closed int32
}

func newCallbackPool(size int) *callbackPool {
	if size <= 0 {
		size = 1
	}
	p := &callbackPool{tasks: make(chan func(), size*4)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *callbackPool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		fn()
	}
}

func (p *callbackPool) submit(fn func()) bool {
	if atomic.LoadInt32(&p.closed) != 0 {
		return false
	}
	select {
	case p.tasks <- fn:
		return true
	default:
		return false
	}
}

func (p *callbackPool) close() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	close(p.tasks)
	p.wg.Wait()
}
