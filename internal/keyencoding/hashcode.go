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

// Package keyencoding decodes the leading hash code YB's hash
// partitioning scheme prepends to a row's encoded partition key: a
// narrow, order-preserving big-endian codec at the 16-bit width a
// YugabyteDB hash code needs.
package keyencoding

import "github.com/cockroachdb/errors"

// DecodeHashCode reads the big-endian uint16 hash code from the front
// of a hash-partitioned row's encoded partition key, which Batcher.Add
// stamps onto the operation.
func DecodeHashCode(partitionKey []byte) (uint16, error) {
	if len(partitionKey) < 2 {
		return 0, errors.Newf("partition key too short to contain a hash code: %d bytes", len(partitionKey))
	}
	return uint16(partitionKey[0])<<8 | uint16(partitionKey[1]), nil
}
