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

// Package master implements the metadata/partition cache the Batcher
// resolves table+partition-key lookups against.
//
// The lookup is single-level (partition key -> tablet) and asynchronous,
// completing through a callback rather than a blocking return, and
// concurrent lookups for the same key are deduplicated onto one
// in-flight request to avoid a lookup storm when many ops in one Add
// burst target the same tablet.
package master

import (
	"context"
	"sync"
	"time"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// LookupCallback is invoked exactly once when a tablet lookup completes.
type LookupCallback func(*tablet.RemoteTablet, error)

// StaleDB is the source of truth a MetaCache consults on a cache miss.
type StaleDB interface {
	GetTabletLocations(ctx context.Context, table ybqlpb.Table, partitionKey []byte) (*tablet.RemoteTablet, error)
}

// ErrPartitionListStale is returned by a lookup when the master
// reports a newer partition-list version than the one the caller
// expected.
var ErrPartitionListStale = &staleError{}

type staleError struct{}

func (*staleError) Error() string { return "partition list is stale" }

// MetaCache resolves table+partition-key lookups to tablets, caching
// results and completing each lookup through a callback.
type MetaCache struct {
	db StaleDB

	mu struct {
		sync.Mutex
		// byTable holds, per table name, the tablets known to cover it,
		// keyed by the partition start key. Tablet boundaries here don't
		// shift except on a split, handled by invalidation rather than by
		// re-deriving any ordering over the keys.
		byTable map[string]map[string]*tablet.RemoteTablet
		// pending dedups concurrent lookups for the same (table, key)
		// onto a single outstanding request.
		pending map[string][]LookupCallback
	}
}

// New returns a MetaCache backed by db.
func New(db StaleDB) *MetaCache {
	c := &MetaCache{db: db}
	c.mu.byTable = make(map[string]map[string]*tablet.RemoteTablet)
	c.mu.pending = make(map[string][]LookupCallback)
	return c
}

func pendingKey(table ybqlpb.Table, partitionKey []byte) string {
	return table.Name() + "\x00" + string(partitionKey)
}

// LookupTabletByKey resolves table+partitionKey to a tablet, invoking cb
// exactly once on completion (success or failure). It never blocks the
// calling goroutine past enqueuing the request.
func (c *MetaCache) LookupTabletByKey(
	ctx context.Context, table ybqlpb.Table, partitionKey []byte, deadline time.Time, cb LookupCallback,
) {
	key := pendingKey(table, partitionKey)

	c.mu.Lock()
	if byKey, ok := c.mu.byTable[table.Name()]; ok {
		if t, ok := findCovering(byKey, partitionKey); ok {
			c.mu.Unlock()
			cb(t, nil)
			return
		}
	}
	if waiters, inFlight := c.mu.pending[key]; inFlight {
		c.mu.pending[key] = append(waiters, cb)
		c.mu.Unlock()
		return
	}
	c.mu.pending[key] = []LookupCallback{cb}
	c.mu.Unlock()

	go c.fetch(ctx, table, partitionKey, deadline, key)
}

func (c *MetaCache) fetch(ctx context.Context, table ybqlpb.Table, partitionKey []byte, deadline time.Time, key string) {
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	t, err := c.db.GetTabletLocations(ctx, table, partitionKey)

	c.mu.Lock()
	waiters := c.mu.pending[key]
	delete(c.mu.pending, key)
	if err == nil {
		byKey, ok := c.mu.byTable[table.Name()]
		if !ok {
			byKey = make(map[string]*tablet.RemoteTablet)
			c.mu.byTable[table.Name()] = byKey
		}
		byKey[string(t.Partition.StartKey)] = t
	}
	c.mu.Unlock()

	for _, w := range waiters {
		w(t, err)
	}
}

// findCovering returns the cached tablet whose partition contains key.
func findCovering(byKey map[string]*tablet.RemoteTablet, key []byte) (*tablet.RemoteTablet, bool) {
	for _, t := range byKey {
		if t.Partition.ContainsKey(key) {
			return t, true
		}
	}
	return nil, false
}

// InvalidateTableCache drops every cached tablet for table: a split
// invalidates every tablet derived from the old partitioning, not just
// the one the triggering op hit.
func (c *MetaCache) InvalidateTableCache(table ybqlpb.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mu.byTable, table.Name())
}
