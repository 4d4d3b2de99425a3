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

package syncutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutex_LockUnlock(t *testing.T) {
	var mu Mutex
	mu.Lock()
	mu.AssertHeld()
	mu.Unlock()
}

func TestRWMutex_LockUnlock(t *testing.T) {
	var mu RWMutex
	mu.Lock()
	mu.Unlock()

	mu.RLock()
	mu.RLock()
	mu.RUnlock()
	mu.RUnlock()
}

func TestMutex_ConcurrentAccess(t *testing.T) {
	var mu Mutex
	counter := 0
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			mu.Lock()
			counter++
			mu.Unlock()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}
	require.Equal(t, 50, counter)
}
