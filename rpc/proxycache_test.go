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

package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func dialOpts() []grpc.DialOption {
	return []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
}

func TestConnFor_ReusesCachedConnectionWithoutLiveness(t *testing.T) {
	pc := NewProxyCache(nil, nil, nil, dialOpts()...)

	c1, err := pc.connFor(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)
	c2, err := pc.connFor(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)
	require.Same(t, c1, c2)
}

func TestConnFor_EvictsUnhealthyConnection(t *testing.T) {
	hb := NewManualHeartbeatService()
	pc := NewProxyCache(nil, nil, hb, dialOpts()...)

	c1, err := pc.connFor(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)

	c2, err := pc.connFor(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)
	require.NotSame(t, c1, c2, "connFor should have redialed a connection the liveness checker rejected")

	hb.MarkReady()
	c3, err := pc.connFor(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)
	require.Same(t, c2, c3, "connFor should reuse the connection once the liveness checker reports it healthy")
}
