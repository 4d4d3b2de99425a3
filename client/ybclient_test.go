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

package client

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/saumyaprakash/yugabyte-db/internal/config"
)

func TestRequestIDSeq_UniqueUnderConcurrency(t *testing.T) {
	var seq RequestIDSeq
	seen := make(map[int64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := seq.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, 100)
}

func TestYBClient_NextRequestID_UniqueAcrossInstances(t *testing.T) {
	a := NewYBClient(config.Config{})
	b := NewYBClient(config.Config{})
	defer a.Close()
	defer b.Close()

	require.NotEqual(t, a.ID, b.ID)
	require.NotEqual(t, a.NextRequestID(), b.NextRequestID())

	first := a.NextRequestID()
	second := a.NextRequestID()
	require.NotEqual(t, first, second)
}

func TestYBClient_MetricsRegisteredOnGivenRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewYBClient(config.Config{}, reg)
	defer c.Close()

	require.NotNil(t, c.Metrics)
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)
}

func TestYBClient_MetricsUsableWithoutRegisterer(t *testing.T) {
	c := NewYBClient(config.Config{})
	defer c.Close()

	require.NotNil(t, c.Metrics)
	c.Metrics.BufferedOps.Inc()
}

func TestYBClient_RunCallback_RunsOnPool(t *testing.T) {
	c := NewYBClient(config.Config{CallbackPoolSize: 2})
	defer c.Close()

	done := make(chan struct{})
	c.RunCallback(context.Background(), func() { close(done) })
	<-done
}

func TestYBClient_RunCallback_FallsBackInlineAfterClose(t *testing.T) {
	c := NewYBClient(config.Config{CallbackPoolSize: 1})
	c.Close()

	ran := false
	c.RunCallback(context.Background(), func() { ran = true })
	require.True(t, ran)
}
