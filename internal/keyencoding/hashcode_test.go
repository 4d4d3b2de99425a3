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

package keyencoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHashCode(t *testing.T) {
	cases := []struct {
		name string
		key  []byte
		want uint16
	}{
		{"zero", []byte{0x00, 0x00}, 0},
		{"max", []byte{0xff, 0xff}, 0xffff},
		{"trailing bytes ignored", []byte{0x01, 0x02, 0x03, 0x04}, 0x0102},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeHashCode(tc.key)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeHashCode_TooShort(t *testing.T) {
	_, err := DecodeHashCode([]byte{0x01})
	require.Error(t, err)
}
