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

// Package tablet holds the handle the meta-cache hands back to the
// Batcher: partition bounds, a partition-list version, and identity for
// grouping.
package tablet

import "bytes"

// Partition is the [start, end) key range a tablet owns. An empty
// StartKey/EndKey means unbounded in that direction.
type Partition struct {
	StartKey []byte
	EndKey   []byte
}

// ContainsKey reports whether key falls within the partition's bounds.
func (p Partition) ContainsKey(key []byte) bool {
	if len(p.StartKey) > 0 && bytes.Compare(key, p.StartKey) < 0 {
		return false
	}
	if len(p.EndKey) > 0 && bytes.Compare(key, p.EndKey) >= 0 {
		return false
	}
	return true
}

// ServerInfo is a replica the tablet is hosted on. The Batcher itself
// never picks among replicas -- routing is the meta-cache's job -- but
// rpc.Messenger needs something concrete to dial, so RemoteTablet
// carries it through.
type ServerInfo struct {
	UUID    string
	Address string
	Leader  bool
}

// RemoteTablet is the handle the meta-cache resolves a (table,
// partition key) to. The Batcher treats it as opaque except for its
// identity, partition bounds, and partition-list version.
type RemoteTablet struct {
	TabletID             string
	Partition            Partition
	PartitionListVersion int64
	Replicas             []ServerInfo
}

// Leader returns the replica currently believed to be the tablet's
// leader, or the zero value if none is known.
func (t *RemoteTablet) Leader() (ServerInfo, bool) {
	for _, r := range t.Replicas {
		if r.Leader {
			return r, true
		}
	}
	return ServerInfo{}, false
}
