// Copyright 2026 The ruleengine Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package loader declares the single external collaborator the engine
// consumes to resolve NotLoaded requests (spec §6 "Loader interface"). The
// production loader and cache are explicitly out of scope (spec §1); this
// package only states the contract, plus (in the boltloader subpackage) a
// reference implementation for tests and examples.
package loader

import "github.com/inferrules/ruleengine/resultalgebra"

// Kind names the category of lookup being requested. Assoc is the only
// kind the engine itself ever asks for; hosts may define further kinds for
// their own extensions, and the engine passes them through unexamined.
type Kind string

// Assoc is the association-lookup kind the engine emits for deferred
// record fields (spec §4.5 "fetch").
const Assoc Kind = "assoc"

// Loader is dependency-injected into the evaluation context rather than
// made globally available (spec §9 "Loader callback"). Lookup may itself
// return NotLoaded if the loader needs another round-trip before it can
// answer; the engine just threads that through like any other pending
// result.
type Loader interface {
	Lookup(cache any, kind Kind, container any, key string) resultalgebra.Result[any]
}

// Func adapts a plain function to the Loader interface, the same shape
// dolthub's auth.Auth adapters (auth.None) use for trivial implementations.
type Func func(cache any, kind Kind, container any, key string) resultalgebra.Result[any]

func (f Func) Lookup(cache any, kind Kind, container any, key string) resultalgebra.Result[any] {
	return f(cache, kind, container, key)
}
