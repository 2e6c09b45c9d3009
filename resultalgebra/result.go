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

// Package resultalgebra implements the three-valued Result type and its
// combinators (spec §4.1). Everything here is a pure function: the engine
// performs no I/O, so every Result is computed synchronously from the
// inputs it's given.
package resultalgebra

import uuid "github.com/satori/go.uuid"

// Kind tags which of the three Result variants a value holds.
type Kind int

const (
	KindOk Kind = iota
	KindNotLoaded
	KindErr
)

// Request is a single piece of data the engine needs before it can make
// progress (spec §3 "NotLoaded(reqs)"). Container/Key identify what to
// fetch; Assoc names the association kind, mirroring the loader's
// `lookup(cache, kind, container, key)` signature (spec §4.5, §6). ID is a
// correlation handle a host can use to match a request to its eventual
// cache fill; the engine never inspects or dedups it (spec §4.1: "dedup is
// not required of the engine and is the loader's responsibility").
type Request struct {
	ID        string
	Assoc     string
	Container any
	Key       string
}

// NewRequest builds a Request with a fresh correlation ID. ID generation
// failure (crypto/rand exhaustion) is not a condition the engine can
// meaningfully recover from, so it falls back to an empty ID rather than
// propagating an error through an otherwise pure constructor.
func NewRequest(assoc string, container any, key string) Request {
	id, err := uuid.NewV4()
	if err != nil {
		return Request{Assoc: assoc, Container: container, Key: key}
	}
	return Request{ID: id.String(), Assoc: assoc, Container: container, Key: key}
}

// Result is exactly one of Ok(v), NotLoaded(reqs), or Err(e) (spec §3).
type Result[T any] struct {
	kind  Kind
	value T
	reqs  []Request
	err   error
}

// Ok builds a determined result.
func Ok[T any](v T) Result[T] { return Result[T]{kind: KindOk, value: v} }

// NotLoaded builds a pending result carrying the requests blocking
// progress. NotLoaded(nil) is legal (spec §3: "stuck without known reason")
// but should not arise on any normal evaluation path.
func NotLoaded[T any](reqs []Request) Result[T] { return Result[T]{kind: KindNotLoaded, reqs: reqs} }

// Err builds a terminal failure. Err is absorbing: see the combinators
// below.
func Err[T any](err error) Result[T] { return Result[T]{kind: KindErr, err: err} }

func (r Result[T]) Kind() Kind       { return r.kind }
func (r Result[T]) IsOk() bool       { return r.kind == KindOk }
func (r Result[T]) IsNotLoaded() bool { return r.kind == KindNotLoaded }
func (r Result[T]) IsErr() bool      { return r.kind == KindErr }

// Value returns the Ok payload and true, or the zero value and false for
// any other kind.
func (r Result[T]) Value() (T, bool) {
	if r.kind == KindOk {
		return r.value, true
	}
	var zero T
	return zero, false
}

// MustValue panics if r is not Ok; reserved for tests and call sites that
// have already checked Kind().
func (r Result[T]) MustValue() T {
	if r.kind != KindOk {
		panic("resultalgebra: MustValue called on non-Ok result")
	}
	return r.value
}

// Requests returns the accumulated NotLoaded request set, or nil for any
// other kind.
func (r Result[T]) Requests() []Request {
	if r.kind == KindNotLoaded {
		return r.reqs
	}
	return nil
}

// Error returns the failure payload, or nil for any other kind.
func (r Result[T]) Error() error {
	if r.kind == KindErr {
		return r.err
	}
	return nil
}

// concatRequests concatenates two request multisets; commutative and
// associative, no dedup (spec §4.1).
func concatRequests(a, b []Request) []Request {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]Request, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
