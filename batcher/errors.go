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
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode tags a Batcher-originated error with a machine-checkable
// kind.
type ErrorCode string

// The Batcher-originated error kinds, covering both the client-visible
// failure reasons and the internal wrong-state/aborted kinds.
const (
	CodeAddInWrongState             ErrorCode = "add-in-wrong-state"
	CodeAborted                     ErrorCode = "aborted"
	CodeRowNotInPartition           ErrorCode = "row-not-in-partition"
	CodePartitionListStale          ErrorCode = "partition-list-is-stale"
	CodeAbortedBatchFailedLookup    ErrorCode = "aborted-batch-due-to-failed-tablet-lookup"
	CodePartitionListVersionMismatch ErrorCode = "partition-list-version-mismatch"
)

// codedError carries an ErrorCode alongside the usual cockroachdb/errors
// stack-traced message.
type codedError struct {
	code ErrorCode
	error
}

func newCodedError(code ErrorCode, format string, args ...interface{}) error {
	return &codedError{code: code, error: errors.Newf(format, args...)}
}

// Code reports the ErrorCode attached to this error.
func (e *codedError) Code() ErrorCode { return e.code }

func (e *codedError) Unwrap() error { return e.error }

// CodeOf extracts the ErrorCode this package attached to err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code, true
	}
	return "", false
}

// retriableCodes are the ErrorCode kinds this package marks retriable:
// the session will create a new Batcher for the affected ops rather
// than treating them as terminally failed.
var retriableCodes = map[ErrorCode]bool{
	CodeAbortedBatchFailedLookup:     true,
	CodePartitionListVersionMismatch: true,
	CodePartitionListStale:           true,
}

// isRetriableStatus reports whether status indicates the session will
// retry the ops that failed with it, either because this package
// attached one of retriableCodes or because the transport reports a
// gRPC code that is conventionally transient (the same classification
// grpcutil.IsClosedConnection uses: a connection or deadline problem,
// not a semantic rejection of the request).
func isRetriableStatus(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := CodeOf(err); ok {
		return retriableCodes[code]
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
			return true
		}
	}
	return false
}

// errReachingTabletServers is the sentinel production-path status for a
// flush that had per-op errors but no diagnostic combined error.
var errReachingTabletServers = errors.New("Errors occurred while reaching out to the tablet servers")

// errCombinedMultipleFailures is what combinedError gets promoted to
// once a second, differently-coded failure arrives under the
// diagnostic combine-errors policy.
var errCombinedMultipleFailures = errors.New("Combined: multiple failures")
