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

// Package rerrors declares the error kinds the engine can produce (spec §7).
// Every kind is absorbing: once produced it short-circuits result reduction
// and is never downgraded to Ok(false) or retried.
package rerrors

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrKey is returned when a required field or bound variable is absent.
	ErrKey = errors.NewKind("key not found: %s")

	// ErrLoader wraps an opaque error forwarded from the loader.
	ErrLoader = errors.NewKind("loader error for %s.%s: %s")

	// ErrConfig is raised synchronously while constructing a FunInfo from
	// invalid arity or argument keys.
	ErrConfig = errors.NewKind("invalid function configuration: %s")

	// ErrCall is returned when a callable invoked from a value template
	// raises.
	ErrCall = errors.NewKind("function call failed: %s")
)

// Bound builds the KeyError raised by Bound(key) when key has no entry in
// the active bindings (spec §3, §4.3): a KeyError variant, not a fifth kind.
func Bound(key string) error {
	return ErrKey.New("bound variable not bound in condition: " + key)
}
