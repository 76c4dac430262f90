// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package qa orchestrates concurrent question answering over indexed
// documents.
//
// The Orchestrator fans a batch of questions out over a bounded worker pool,
// runs hybrid retrieval and grounded generation for each, and collects
// results in input order. Every question carries its own deadline and the
// whole batch runs under a wall-clock ceiling; a slot whose question misses
// either deadline is filled with a fixed fallback answer and a timeout
// sentinel rather than failing the batch.
//
// The Service layers document workflows on top: one-shot answering over an
// ephemeral collection that is always cleaned up, and querying or inspecting
// persisted documents.
package qa
