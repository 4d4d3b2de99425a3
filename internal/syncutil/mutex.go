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

// Package syncutil is a thin shim over sync.Mutex/sync.RWMutex that
// adds assertion hooks usable in tests without depending on -race.
package syncutil

import "sync"

// A Mutex is a mutual exclusion lock. It exists, instead of a bare
// sync.Mutex, so that batcher code can document and (in tests) assert
// the lock-ordering discipline it depends on: session lock before
// batcher lock, and never held across a callback.
type Mutex struct {
	sync.Mutex
}

// AssertHeld is a no-op in production; test builds may swap in a
// build-tagged variant that panics if the mutex isn't held.
func (m *Mutex) AssertHeld() {}

// An RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	sync.RWMutex
}
