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

// Session is the user-facing handle that owns a family of Batchers
// flushed together. It is notified at the start and end of each
// Batcher's flush so it can track outstanding flush counts and surface
// combined diagnostics, without owning the Batcher's state machine
// itself.
type Session interface {
	// FlushStarted is called once a Batcher begins FlushAsync, before
	// any lookup or RPC is dispatched.
	FlushStarted(b FlushingBatcher)

	// FlushFinished is called once a Batcher's flush completes through
	// its finished-flush check, just before the flush callback runs,
	// whether every op succeeded or some failed. An aborted flush does
	// not call it.
	FlushFinished(b FlushingBatcher)
}

// FlushingBatcher is the narrow view of a Batcher that Session needs,
// kept separate from the full batcher.Batcher type to avoid an import
// cycle between client and batcher (client.Transaction/Session are
// collaborators batcher.Batcher depends on, not the reverse).
type FlushingBatcher interface {
	HadErrors() bool
	CountBufferedOperations() int
}
