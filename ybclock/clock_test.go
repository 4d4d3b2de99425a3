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

package ybclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHybridTimeFromComponents_RoundTrips(t *testing.T) {
	h := HybridTimeFromComponents(1234567890, 7)
	require.Equal(t, int64(1234567890), h.Physical())
	require.Equal(t, uint32(7), h.Logical())
}

func TestClock_UpdateClock_NeverMovesBackwards(t *testing.T) {
	c := New()
	start := c.Now()

	c.UpdateClock(start)
	require.Greater(t, uint64(c.Now()), uint64(start))
}

func TestClock_UpdateClock_RatchetsToPropagatedTime(t *testing.T) {
	c := New()
	future := HybridTimeFromComponents(time.Now().Add(time.Hour).UnixNano(), 0)

	c.UpdateClock(future)
	require.GreaterOrEqual(t, c.Now().Physical(), future.Physical())
}
