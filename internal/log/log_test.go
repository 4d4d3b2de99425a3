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

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/logtags"
	"github.com/stretchr/testify/require"
)

func TestVInfof_GatedByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	SetVerbosity(0)
	defer SetVerbosity(0)

	VInfof(context.Background(), 2, "should not appear")
	require.Empty(t, buf.String())

	SetVerbosity(2)
	VInfof(context.Background(), 2, "should appear")
	require.Contains(t, buf.String(), "should appear")
}

func TestWithTags_PrefixesLogLines(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	ctx := WithTags(context.Background(), logtags.SingleTagBuffer("batch", 7))
	Infof(ctx, "flushed")

	line := buf.String()
	require.True(t, strings.Contains(line, "batch"))
	require.True(t, strings.Contains(line, "flushed"))
}

func TestInfof_NoTagsNoPrefix(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()

	Infof(context.Background(), "plain message")
	require.NotContains(t, buf.String(), "[")
}
