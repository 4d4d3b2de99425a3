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

// Package errcollect implements the per-operation error sink a Batcher
// flush accumulates into and the user drains after the flush settles.
// Errors are keyed by operation, since a single flush spans many ops
// with independent outcomes.
package errcollect

import (
	"sync"

	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// Error pairs a failed operation with the status it failed with.
type Error struct {
	Op     ybqlpb.Operation
	Status error
}

// Collector accumulates Errors across the lifetime of a session and
// lets the user drain them after a flush completes.
type Collector struct {
	mu     sync.Mutex
	errors []Error
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Add appends a per-operation error. Safe for concurrent use; the
// Batcher may call it from lookup-completion, RPC-response, and abort
// paths on different goroutines.
func (c *Collector) Add(op ybqlpb.Operation, status error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, Error{Op: op, Status: status})
}

// GetAndClear returns all accumulated errors and resets the collector.
func (c *Collector) GetAndClear() []Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := c.errors
	c.errors = nil
	return errs
}

// Len reports how many errors are currently buffered, for tests.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}
