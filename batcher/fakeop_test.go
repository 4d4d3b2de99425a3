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
	"fmt"

	gogoproto "github.com/gogo/protobuf/proto"

	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// fakeTable is a minimal ybqlpb.Table for tests.
type fakeTable struct {
	name   string
	scheme ybqlpb.PartitionSchemeKind
}

func (t *fakeTable) Name() string                              { return t.name }
func (t *fakeTable) PartitionSchemeKind() ybqlpb.PartitionSchemeKind { return t.scheme }

// fakeOp is a minimal ybqlpb.Operation for tests. Only the fields a
// given test cares about need to be set; the rest take harmless
// zero-value behavior.
type fakeOp struct {
	id    string
	table *fakeTable
	key   []byte
	group ybqlpb.Group

	resolved   *tablet.RemoteTablet
	hasPinned  bool
	listVer    int64
	hasListVer bool

	refreshNeeded bool
	refreshErr    error
	keyErr        error

	staleMarked bool
	hashCode    uint16
}

func (o *fakeOp) GetPartitionKey() ([]byte, error) {
	if o.keyErr != nil {
		return nil, o.keyErr
	}
	return o.key, nil
}

func (o *fakeOp) ResolvedTablet() (*tablet.RemoteTablet, bool) { return o.resolved, o.hasPinned }
func (o *fakeOp) Type() ybqlpb.Type                            { return ybqlpb.QLWrite }
func (o *fakeOp) Group() ybqlpb.Group                          { return o.group }
func (o *fakeOp) Table() ybqlpb.Table                          { return o.table }

func (o *fakeOp) PartitionListVersion() (int64, bool) { return o.listVer, o.hasListVer }

func (o *fakeOp) MarkTablePartitionListAsStale() { o.staleMarked = true }

func (o *fakeOp) MaybeRefreshTablePartitionList() (bool, error) {
	return o.refreshNeeded, o.refreshErr
}

func (o *fakeOp) SetHashCode(code uint16) { o.hashCode = code }

func (o *fakeOp) Payload() gogoproto.Message { return nil }

func (o *fakeOp) String() string { return fmt.Sprintf("fakeOp(%s)", o.id) }
