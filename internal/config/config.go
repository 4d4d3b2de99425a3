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

// Package config holds driver-wide tunables loaded from TOML,
// following the corpus convention (matrixorigin-matrixcube and the
// teacher both configure their servers via BurntSushi/toml) of keeping
// operational knobs out of code.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables consumed by the batcher and its
// collaborators. It exists so the ambient concerns (deadlines, the
// callback thread-pool, the rejection-score threshold, and the
// test-only combined-error and debug-assertion switches) have a single
// documented home instead of being scattered constants.
type Config struct {
	// DefaultDeadline bounds a Batcher's dependent lookups and RPCs
	// when the caller does not set one explicitly via SetDeadline.
	DefaultDeadline time.Duration `toml:"default_deadline"`

	// CallbackPoolSize sizes the worker pool flush callbacks are
	// submitted to; a value of 0 or less gives a single-worker pool.
	CallbackPoolSize int `toml:"callback_pool_size"`

	// RejectionScoreThreshold is consumed by the session-level backoff
	// policy that decides whether to shed load before creating a new
	// Batcher; the Batcher itself only plumbs the score through.
	RejectionScoreThreshold float64 `toml:"rejection_score_threshold"`

	// DiagnosticCombinedErrors turns on a "combine errors into a single
	// status" mode. It must stay off in production; only test
	// configuration should set it.
	DiagnosticCombinedErrors bool `toml:"diagnostic_combined_errors"`

	// DebugAssertions enables CHECK-style assertions that a release
	// build compiles out, notably Batcher.Close() panicking on a
	// non-empty admitted set: destruction requires every dispatched RPC
	// to have already reported back. Off by default; test configuration
	// should set it.
	DebugAssertions bool `toml:"debug_assertions"`
}

// Default returns the configuration used when no TOML file is loaded.
func Default() Config {
	return Config{
		DefaultDeadline:  10 * time.Second,
		CallbackPoolSize: 16,
	}
}

// Load reads a TOML configuration file, applying it on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
