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

package master

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

type fakeTable struct{ name string }

func (t *fakeTable) Name() string                                   { return t.name }
func (t *fakeTable) PartitionSchemeKind() ybqlpb.PartitionSchemeKind { return ybqlpb.RangePartitioned }

// countingDB records how many times GetTabletLocations was invoked per
// key, so tests can assert concurrent lookups for the same key get
// deduplicated onto one request.
type countingDB struct {
	mu     sync.Mutex
	calls  int32
	result *tablet.RemoteTablet
	err    error
	block  chan struct{}
}

func (d *countingDB) GetTabletLocations(ctx context.Context, table ybqlpb.Table, key []byte) (*tablet.RemoteTablet, error) {
	atomic.AddInt32(&d.calls, 1)
	if d.block != nil {
		<-d.block
	}
	return d.result, d.err
}

func TestMetaCache_LookupTabletByKey_CachesResult(t *testing.T) {
	tb := &tablet.RemoteTablet{TabletID: "t1", Partition: tablet.Partition{}}
	db := &countingDB{result: tb}
	c := New(db)
	table := &fakeTable{name: "mytable"}

	done := make(chan struct{})
	c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(got *tablet.RemoteTablet, err error) {
		require.NoError(t, err)
		require.Same(t, tb, got)
		close(done)
	})
	<-done

	done2 := make(chan struct{})
	c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(got *tablet.RemoteTablet, err error) {
		require.NoError(t, err)
		require.Same(t, tb, got)
		close(done2)
	})
	<-done2

	require.Equal(t, int32(1), atomic.LoadInt32(&db.calls))
}

func TestMetaCache_LookupTabletByKey_DedupsConcurrentRequests(t *testing.T) {
	tb := &tablet.RemoteTablet{TabletID: "t1"}
	db := &countingDB{result: tb, block: make(chan struct{})}
	c := New(db)
	table := &fakeTable{name: "mytable"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(got *tablet.RemoteTablet, err error) {
			defer wg.Done()
			require.NoError(t, err)
			require.Same(t, tb, got)
		})
	}
	close(db.block)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&db.calls))
}

func TestMetaCache_LookupTabletByKey_PropagatesError(t *testing.T) {
	wantErr := errors.New("no such tablet")
	db := &countingDB{err: wantErr}
	c := New(db)
	table := &fakeTable{name: "mytable"}

	done := make(chan struct{})
	c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(got *tablet.RemoteTablet, err error) {
		require.Nil(t, got)
		require.ErrorIs(t, err, wantErr)
		close(done)
	})
	<-done
}

func TestMetaCache_InvalidateTableCache_ForcesRefetch(t *testing.T) {
	tb := &tablet.RemoteTablet{TabletID: "t1"}
	db := &countingDB{result: tb}
	c := New(db)
	table := &fakeTable{name: "mytable"}

	done := make(chan struct{})
	c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(*tablet.RemoteTablet, error) { close(done) })
	<-done

	c.InvalidateTableCache(table)

	done2 := make(chan struct{})
	c.LookupTabletByKey(context.Background(), table, []byte("k1"), time.Time{}, func(*tablet.RemoteTablet, error) { close(done2) })
	<-done2

	require.Equal(t, int32(2), atomic.LoadInt32(&db.calls))
}
