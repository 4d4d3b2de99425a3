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
	"sync"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"

	"github.com/saumyaprakash/yugabyte-db/internal/log"
	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// Invoker performs the actual wire call for one per-tablet RPC against
// an established connection. It is the seam between what ProxyCache
// owns (connection management, local-call short-circuiting, the
// write/read RPC kind split) and what stays external to this module:
// the generated tablet-server service stubs and wire codec.
type Invoker interface {
	InvokeWrite(ctx context.Context, conn *grpc.ClientConn, t *tablet.RemoteTablet, ops []ybqlpb.Operation) Response
	InvokeRead(ctx context.Context, conn *grpc.ClientConn, t *tablet.RemoteTablet, ops []ybqlpb.Operation, consistentPrefix bool) Response
}

// LocalInvoker, when set, lets ProxyCache dispatch directly to an
// in-process tablet server instead of dialing out over gRPC -- a client
// and a colocated tablet server in the same process is a common enough
// deployment to be worth the short-circuit.
type LocalInvoker interface {
	Invoker
	ServesTablet(t *tablet.RemoteTablet) bool
}

// ProxyCache dials and caches gRPC connections to tablet servers,
// keyed by address, and dispatches the three RPC kinds a Batcher group
// can need. Each dispatch targets a single fixed destination (the
// tablet's current leader); routing among replicas is the meta-cache's
// job, not this cache's.
type ProxyCache struct {
	remote   Invoker
	local    LocalInvoker
	liveness LivenessChecker

	dialOpts []grpc.DialOption

	mu struct {
		sync.Mutex
		conns map[string]*grpc.ClientConn
	}
}

// NewProxyCache returns a ProxyCache that invokes RPCs via remote, with
// an optional local short-circuit via local (may be nil) and an
// optional liveness (may be nil) consulted before a cached connection
// is reused.
func NewProxyCache(remote Invoker, local LocalInvoker, liveness LivenessChecker, dialOpts ...grpc.DialOption) *ProxyCache {
	pc := &ProxyCache{remote: remote, local: local, liveness: liveness, dialOpts: dialOpts}
	pc.mu.conns = make(map[string]*grpc.ClientConn)
	return pc
}

// connFor returns a connection to addr, redialing if none is cached or
// if the cached one has been marked unhealthy by pc.liveness.
func (pc *ProxyCache) connFor(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if conn, ok := pc.mu.conns[addr]; ok {
		if pc.liveness == nil || pc.liveness.Healthy(ctx, addr) {
			return conn, nil
		}
		log.Warningf(ctx, "evicting unhealthy connection to %s", addr)
		if err := conn.Close(); err != nil {
			log.Warningf(ctx, "closing stale connection to %s: %s", addr, err)
		}
		delete(pc.mu.conns, addr)
	}
	conn, err := grpc.Dial(addr, pc.dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing tablet server %s", addr)
	}
	pc.mu.conns[addr] = conn
	return conn, nil
}

func destination(t *tablet.RemoteTablet) (tablet.ServerInfo, bool) {
	return t.Leader()
}

func (pc *ProxyCache) dispatch(
	t *tablet.RemoteTablet,
	opts SendOptions,
	cb Callback,
	invoke func(ctx context.Context, conn *grpc.ClientConn) Response,
	localInvoke func(ctx context.Context) (Response, bool),
) {
	dest, ok := destination(t)
	if !ok {
		cb(Response{Status: errors.Newf("no leader known for tablet %s", t.TabletID)})
		return
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if !opts.Deadline.IsZero() {
		ctx, cancel = context.WithDeadline(ctx, opts.Deadline)
	}

	go func() {
		if cancel != nil {
			defer cancel()
		}
		if opts.Trace != nil {
			opts.Trace.LogKV("event", "dispatching", "tablet", t.TabletID, "addr", dest.Address)
		}

		if opts.AllowLocalCalls && pc.local != nil && pc.local.ServesTablet(t) {
			if resp, ok := localInvoke(ctx); ok {
				cb(resp)
				return
			}
		}

		conn, err := pc.connFor(ctx, dest.Address)
		if err != nil {
			log.Warningf(ctx, "%s", err)
			cb(Response{Status: err})
			return
		}
		cb(invoke(ctx, conn))
	}()
}

// SendWrite implements Messenger.
func (pc *ProxyCache) SendWrite(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback) {
	pc.dispatch(t, opts, cb,
		func(ctx context.Context, conn *grpc.ClientConn) Response {
			return pc.remote.InvokeWrite(ctx, conn, t, ops)
		},
		func(ctx context.Context) (Response, bool) {
			return pc.local.InvokeWrite(ctx, nil, t, ops), true
		},
	)
}

// SendLeaderRead implements Messenger.
func (pc *ProxyCache) SendLeaderRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback) {
	pc.dispatch(t, opts, cb,
		func(ctx context.Context, conn *grpc.ClientConn) Response {
			return pc.remote.InvokeRead(ctx, conn, t, ops, false)
		},
		func(ctx context.Context) (Response, bool) {
			return pc.local.InvokeRead(ctx, nil, t, ops, false), true
		},
	)
}

// SendConsistentPrefixRead implements Messenger.
func (pc *ProxyCache) SendConsistentPrefixRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts SendOptions, cb Callback) {
	pc.dispatch(t, opts, cb,
		func(ctx context.Context, conn *grpc.ClientConn) Response {
			return pc.remote.InvokeRead(ctx, conn, t, ops, true)
		},
		func(ctx context.Context) (Response, bool) {
			return pc.local.InvokeRead(ctx, nil, t, ops, true), true
		},
	)
}

// Close tears down every cached connection.
func (pc *ProxyCache) Close() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	var firstErr error
	for addr, conn := range pc.mu.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "closing connection to %s", addr)
		}
		delete(pc.mu.conns, addr)
	}
	return firstErr
}
