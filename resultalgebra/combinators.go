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

package resultalgebra

// Transform maps the Ok payload through f; Err/NotLoaded pass through
// unchanged (spec §4.1 "transform").
func Transform[T, U any](r Result[T], f func(T) U) Result[U] {
	switch r.Kind() {
	case KindOk:
		v, _ := r.Value()
		return Ok(f(v))
	case KindNotLoaded:
		return NotLoaded[U](r.Requests())
	default:
		return Err[U](r.Error())
	}
}

// Then is the monadic bind: Ok(v) -> f(v); NotLoaded/Err pass through
// (spec §4.1 "then").
func Then[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	switch r.Kind() {
	case KindOk:
		v, _ := r.Value()
		return f(v)
	case KindNotLoaded:
		return NotLoaded[U](r.Requests())
	default:
		return Err[U](r.Error())
	}
}

// Map applies f element-wise, concatenating NotLoaded requests across
// elements, short-circuiting on the first Err, and otherwise returning
// Ok(list) (spec §4.1 "map").
func Map[T, U any](elems []T, f func(T) Result[U]) Result[[]U] {
	out := make([]U, 0, len(elems))
	var reqs []Request
	for _, e := range elems {
		r := f(e)
		switch r.Kind() {
		case KindErr:
			return Err[[]U](r.Error())
		case KindNotLoaded:
			reqs = concatRequests(reqs, r.Requests())
		case KindOk:
			v, _ := r.Value()
			out = append(out, v)
		}
	}
	if len(reqs) > 0 {
		return NotLoaded[[]U](reqs)
	}
	return Ok(out)
}

// MapValues applies f to every value of m, preserving keys, with the same
// Err/NotLoaded propagation as Map (spec §4.1 "map_values"). Iteration
// order follows keys for determinism; map key order itself carries no
// semantics here since Go maps are unordered regardless.
func MapValues[K comparable, T, U any](m map[K]T, keys []K, f func(K, T) Result[U]) Result[map[K]U] {
	out := make(map[K]U, len(m))
	var reqs []Request
	for _, k := range keys {
		r := f(k, m[k])
		switch r.Kind() {
		case KindErr:
			return Err[map[K]U](r.Error())
		case KindNotLoaded:
			reqs = concatRequests(reqs, r.Requests())
		case KindOk:
			v, _ := r.Value()
			out[k] = v
		}
	}
	if len(reqs) > 0 {
		return NotLoaded[map[K]U](reqs)
	}
	return Ok(out)
}
