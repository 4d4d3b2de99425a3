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

package errcollect

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	gogoproto "github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// fakeOp is a minimal ybqlpb.Operation stub; the collector only ever
// stores and returns it, never inspects its fields.
type fakeOp struct{ name string }

func (f *fakeOp) GetPartitionKey() ([]byte, error)               { return nil, nil }
func (f *fakeOp) ResolvedTablet() (*tablet.RemoteTablet, bool)    { return nil, false }
func (f *fakeOp) Type() ybqlpb.Type                               { return ybqlpb.QLWrite }
func (f *fakeOp) Group() ybqlpb.Group                             { return ybqlpb.GroupWrite }
func (f *fakeOp) Table() ybqlpb.Table                             { return nil }
func (f *fakeOp) PartitionListVersion() (int64, bool)             { return 0, false }
func (f *fakeOp) MarkTablePartitionListAsStale()                  {}
func (f *fakeOp) MaybeRefreshTablePartitionList() (bool, error)   { return false, nil }
func (f *fakeOp) SetHashCode(uint16)                              {}
func (f *fakeOp) Payload() gogoproto.Message                      { return nil }
func (f *fakeOp) String() string                                  { return f.name }

var _ ybqlpb.Operation = (*fakeOp)(nil)

func TestCollector_GetAndClear_DrainsAndResets(t *testing.T) {
	c := New()
	require.Equal(t, 0, c.Len())

	op := &fakeOp{name: "op1"}
	c.Add(op, errors.New("boom"))
	require.Equal(t, 1, c.Len())

	errs := c.GetAndClear()
	require.Len(t, errs, 1)
	require.Same(t, op, errs[0].Op)
	require.Equal(t, 0, c.Len())
	require.Empty(t, c.GetAndClear())
}

func TestCollector_Add_ConcurrentSafe(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(&fakeOp{name: fmt.Sprintf("op%d", i)}, errors.New("boom"))
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, c.Len())
}
