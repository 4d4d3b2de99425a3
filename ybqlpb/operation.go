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

// Package ybqlpb defines the per-row operation data model the Batcher
// consumes: a tagged variant over the QL/Redis/PGSQL read and write
// kinds, dispatched by Group for routing to the right RPC class. Whether
// a hash code is stamped is decided by the owning Table's
// PartitionSchemeKind.
package ybqlpb

import (
	gogoproto "github.com/gogo/protobuf/proto"

	"github.com/saumyaprakash/yugabyte-db/tablet"
)

// Type is the operation family.
type Type int

const (
	QLRead Type = iota
	QLWrite
	RedisRead
	RedisWrite
	PgsqlRead
	PgsqlWrite
)

func (t Type) String() string {
	switch t {
	case QLRead:
		return "QL_READ"
	case QLWrite:
		return "QL_WRITE"
	case RedisRead:
		return "REDIS_READ"
	case RedisWrite:
		return "REDIS_WRITE"
	case PgsqlRead:
		return "PGSQL_READ"
	case PgsqlWrite:
		return "PGSQL_WRITE"
	default:
		return "UNKNOWN"
	}
}

// IsWrite reports whether the operation type is one of the write kinds.
func (t Type) IsWrite() bool {
	return t == QLWrite || t == RedisWrite || t == PgsqlWrite
}

// Group is the op-group kind: it determines which RPC class a group of
// resolved ops is dispatched through.
type Group int

const (
	GroupWrite Group = iota
	GroupLeaderRead
	GroupConsistentPrefixRead
)

func (g Group) String() string {
	switch g {
	case GroupWrite:
		return "write"
	case GroupLeaderRead:
		return "leader-read"
	case GroupConsistentPrefixRead:
		return "consistent-prefix-read"
	default:
		return "unknown"
	}
}

// PartitionSchemeKind distinguishes hash- from range-partitioned
// tables; only hash-partitioned families stamp a hash code onto the
// operation.
type PartitionSchemeKind int

const (
	RangePartitioned PartitionSchemeKind = iota
	HashPartitioned
)

// Table is the owning table's metadata as the Batcher needs it: enough
// to decide whether a partition-list refresh or hash-code stamping
// applies, and to invalidate the meta-cache entry for it.
type Table interface {
	Name() string
	PartitionSchemeKind() PartitionSchemeKind
}

// Operation is the per-row contract the Batcher consumes.
type Operation interface {
	// GetPartitionKey returns the encoded key bytes used to route this
	// op to a tablet.
	GetPartitionKey() ([]byte, error)

	// ResolvedTablet returns a caller-pinned tablet for this op, if the
	// caller already knows which tablet it belongs on (caller-driven
	// routing). Add short-circuits straight to the lookup-complete
	// handler when this returns ok, skipping the meta-cache round trip.
	ResolvedTablet() (*tablet.RemoteTablet, bool)

	Type() Type
	Group() Group
	Table() Table

	// PartitionListVersion returns the partition-list version this op
	// was resolved against, if the caller pinned one.
	PartitionListVersion() (version int64, ok bool)

	// MarkTablePartitionListAsStale is called when a lookup reports
	// that the table's partitioning is out of date, so a session-level
	// retry observes fresh partitions.
	MarkTablePartitionListAsStale()

	// MaybeRefreshTablePartitionList reports whether the table's
	// partition list needs an eager refresh (tablet splits), and if so
	// performs whatever bookkeeping the operation needs before the
	// batcher invalidates the meta-cache entry.
	MaybeRefreshTablePartitionList() (bool, error)

	// SetHashCode stamps the decoded hash code from the partition key
	// onto the operation for hash-partitioned families.
	SetHashCode(code uint16)

	// Payload returns the wire-encodable body of the operation.
	Payload() gogoproto.Message

	String() string
}
