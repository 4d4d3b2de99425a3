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

// Package batchermock holds hand-maintained golang/mock-style doubles
// for the Batcher's collaborator interfaces (batcher.TabletResolver,
// rpc.Messenger, client.Transaction, client.Session). These follow
// mockgen's Controller/recorder shape by hand since the four
// interfaces are small and stable enough not to warrant running the
// generator.
package batchermock

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/saumyaprakash/yugabyte-db/client"
	"github.com/saumyaprakash/yugabyte-db/master"
	"github.com/saumyaprakash/yugabyte-db/rpc"
	"github.com/saumyaprakash/yugabyte-db/tablet"
	"github.com/saumyaprakash/yugabyte-db/ybclock"
	"github.com/saumyaprakash/yugabyte-db/ybqlpb"
)

// MockTabletResolver mocks batcher.TabletResolver.
type MockTabletResolver struct {
	ctrl     *gomock.Controller
	recorder *MockTabletResolverRecorder
}

type MockTabletResolverRecorder struct{ mock *MockTabletResolver }

func NewMockTabletResolver(ctrl *gomock.Controller) *MockTabletResolver {
	m := &MockTabletResolver{ctrl: ctrl}
	m.recorder = &MockTabletResolverRecorder{m}
	return m
}

func (m *MockTabletResolver) EXPECT() *MockTabletResolverRecorder { return m.recorder }

func (m *MockTabletResolver) LookupTabletByKey(
	ctx context.Context, table ybqlpb.Table, partitionKey []byte, deadline time.Time, cb master.LookupCallback,
) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "LookupTabletByKey", ctx, table, partitionKey, deadline, cb)
}

func (mr *MockTabletResolverRecorder) LookupTabletByKey(ctx, table, partitionKey, deadline, cb interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LookupTabletByKey",
		reflect.TypeOf((*MockTabletResolver)(nil).LookupTabletByKey), ctx, table, partitionKey, deadline, cb)
}

func (m *MockTabletResolver) InvalidateTableCache(table ybqlpb.Table) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "InvalidateTableCache", table)
}

func (mr *MockTabletResolverRecorder) InvalidateTableCache(table interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InvalidateTableCache",
		reflect.TypeOf((*MockTabletResolver)(nil).InvalidateTableCache), table)
}

// MockMessenger mocks rpc.Messenger.
type MockMessenger struct {
	ctrl     *gomock.Controller
	recorder *MockMessengerRecorder
}

type MockMessengerRecorder struct{ mock *MockMessenger }

func NewMockMessenger(ctrl *gomock.Controller) *MockMessenger {
	m := &MockMessenger{ctrl: ctrl}
	m.recorder = &MockMessengerRecorder{m}
	return m
}

func (m *MockMessenger) EXPECT() *MockMessengerRecorder { return m.recorder }

func (m *MockMessenger) SendWrite(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts rpc.SendOptions, cb rpc.Callback) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SendWrite", t, ops, opts, cb)
}

func (mr *MockMessengerRecorder) SendWrite(t, ops, opts, cb interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendWrite",
		reflect.TypeOf((*MockMessenger)(nil).SendWrite), t, ops, opts, cb)
}

func (m *MockMessenger) SendLeaderRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts rpc.SendOptions, cb rpc.Callback) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SendLeaderRead", t, ops, opts, cb)
}

func (mr *MockMessengerRecorder) SendLeaderRead(t, ops, opts, cb interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendLeaderRead",
		reflect.TypeOf((*MockMessenger)(nil).SendLeaderRead), t, ops, opts, cb)
}

func (m *MockMessenger) SendConsistentPrefixRead(t *tablet.RemoteTablet, ops []ybqlpb.Operation, opts rpc.SendOptions, cb rpc.Callback) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SendConsistentPrefixRead", t, ops, opts, cb)
}

func (mr *MockMessengerRecorder) SendConsistentPrefixRead(t, ops, opts, cb interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendConsistentPrefixRead",
		reflect.TypeOf((*MockMessenger)(nil).SendConsistentPrefixRead), t, ops, opts, cb)
}

// MockTransaction mocks client.Transaction.
type MockTransaction struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionRecorder
}

type MockTransactionRecorder struct{ mock *MockTransaction }

func NewMockTransaction(ctrl *gomock.Controller) *MockTransaction {
	m := &MockTransaction{ctrl: ctrl}
	m.recorder = &MockTransactionRecorder{m}
	return m
}

func (m *MockTransaction) EXPECT() *MockTransactionRecorder { return m.recorder }

func (m *MockTransaction) Prepare(
	groups []ybqlpb.Group, forceConsistentRead bool, deadline time.Time, initial bool, cb client.PrepareCallback,
) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Prepare", groups, forceConsistentRead, deadline, initial, cb)
	ready, _ := ret[0].(bool)
	return ready
}

func (mr *MockTransactionRecorder) Prepare(groups, forceConsistentRead, deadline, initial, cb interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Prepare",
		reflect.TypeOf((*MockTransaction)(nil).Prepare), groups, forceConsistentRead, deadline, initial, cb)
}

func (m *MockTransaction) ExpectOperations(n int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ExpectOperations", n)
}

func (mr *MockTransactionRecorder) ExpectOperations(n interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExpectOperations",
		reflect.TypeOf((*MockTransaction)(nil).ExpectOperations), n)
}

func (m *MockTransaction) Flushed(ops []ybqlpb.Operation, readTime ybclock.HybridTime, status error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Flushed", ops, readTime, status)
}

func (mr *MockTransactionRecorder) Flushed(ops, readTime, status interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Flushed",
		reflect.TypeOf((*MockTransaction)(nil).Flushed), ops, readTime, status)
}

func (m *MockTransaction) Trace() opentracing.Span {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Trace")
	span, _ := ret[0].(opentracing.Span)
	return span
}

func (mr *MockTransactionRecorder) Trace() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Trace", reflect.TypeOf((*MockTransaction)(nil).Trace))
}

// MockSession mocks client.Session.
type MockSession struct {
	ctrl     *gomock.Controller
	recorder *MockSessionRecorder
}

type MockSessionRecorder struct{ mock *MockSession }

func NewMockSession(ctrl *gomock.Controller) *MockSession {
	m := &MockSession{ctrl: ctrl}
	m.recorder = &MockSessionRecorder{m}
	return m
}

func (m *MockSession) EXPECT() *MockSessionRecorder { return m.recorder }

func (m *MockSession) FlushStarted(b client.FlushingBatcher) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "FlushStarted", b)
}

func (mr *MockSessionRecorder) FlushStarted(b interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FlushStarted",
		reflect.TypeOf((*MockSession)(nil).FlushStarted), b)
}

func (m *MockSession) FlushFinished(b client.FlushingBatcher) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "FlushFinished", b)
}

func (mr *MockSessionRecorder) FlushFinished(b interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FlushFinished",
		reflect.TypeOf((*MockSession)(nil).FlushFinished), b)
}
