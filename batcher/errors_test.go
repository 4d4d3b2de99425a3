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

package batcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsRetriableStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errBoom, false},
		{"coded aborted-batch-failed-lookup", newCodedError(CodeAbortedBatchFailedLookup, "x"), true},
		{"coded partition-list-version-mismatch", newCodedError(CodePartitionListVersionMismatch, "x"), true},
		{"coded partition-list-stale", newCodedError(CodePartitionListStale, "x"), true},
		{"coded add-in-wrong-state", newCodedError(CodeAddInWrongState, "x"), false},
		{"coded aborted", newCodedError(CodeAborted, "x"), false},
		{"grpc unavailable", status.Error(codes.Unavailable, "x"), true},
		{"grpc deadline exceeded", status.Error(codes.DeadlineExceeded, "x"), true},
		{"grpc aborted", status.Error(codes.Aborted, "x"), true},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "x"), true},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "x"), false},
		{"grpc not found", status.Error(codes.NotFound, "x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, isRetriableStatus(tc.err))
		})
	}
}
