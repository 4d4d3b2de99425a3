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

// Package log provides leveled, context-tagged logging for the driver:
// V(n)-gated verbosity, an Infof/Warningf/Errorf/Fatalf surface, and
// structured tags via github.com/cockroachdb/logtags. Output goes to a
// single io.Writer rather than a rotating file set, since this driver
// has no daemon lifecycle to rotate logs for.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/logtags"
)

// Severity orders log levels from least to most urgent.
type Severity int32

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

var severityChar = [...]byte{'I', 'W', 'E', 'F'}

// verbosity is the global V(n) threshold, adjustable for tests.
var verbosity int32

// SetVerbosity sets the global V(n) threshold.
func SetVerbosity(v int32) { atomic.StoreInt32(&verbosity, v) }

// V reports whether logging at the given verbosity level is enabled.
func V(level int32) bool { return atomic.LoadInt32(&verbosity) >= level }

// Output is the writer log lines are sent to. Tests may replace it to
// capture output.
var Output io.Writer = os.Stderr

// WithTags returns a context carrying an additional structured tag,
// rendered as "[name=value]" prefixes on every log line derived from it.
func WithTags(ctx context.Context, tags *logtags.Buffer) context.Context {
	return logtags.WithTags(ctx, tags)
}

func makeMessage(ctx context.Context, format string, args []interface{}) string {
	var tagStr string
	if tags := logtags.FromContext(ctx); tags != nil {
		tagStr = tags.String()
	}
	msg := fmt.Sprintf(format, args...)
	if tagStr == "" {
		return msg
	}
	return "[" + tagStr + "] " + msg
}

func output(ctx context.Context, s Severity, format string, args ...interface{}) {
	msg := makeMessage(ctx, format, args)
	fmt.Fprintf(Output, "%c%s %s\n", severityChar[s], time.Now().UTC().Format("0102 15:04:05.000000"), msg)
	if s == Fatal {
		os.Exit(1)
	}
}

func Infof(ctx context.Context, format string, args ...interface{})    { output(ctx, Info, format, args...) }
func Warningf(ctx context.Context, format string, args ...interface{}) { output(ctx, Warning, format, args...) }
func Errorf(ctx context.Context, format string, args ...interface{})   { output(ctx, Error, format, args...) }
func Fatalf(ctx context.Context, format string, args ...interface{})   { output(ctx, Fatal, format, args...) }

// VInfof logs at Info severity only if V(level) is enabled.
func VInfof(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		output(ctx, Info, format, args...)
	}
}
