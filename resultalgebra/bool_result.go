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

// Bindings maps a Bind key to the subject snapshot captured when its
// condition held true (spec §3 "Bind/Bound"). Bindings are local to one
// evaluation subtree: they travel with a BoolResult rather than through
// shared mutable state, so rule i's bindings never leak into rule j's
// condition (spec §5, testable property 4).
type Bindings map[string]any

// With returns a copy of b with key set to v. The receiver is never
// mutated: Bindings are threaded by value through the reduction.
func (b Bindings) With(key string, v any) Bindings {
	out := make(Bindings, len(b)+1)
	for k, vv := range b {
		out[k] = vv
	}
	out[key] = v
	return out
}

// Get looks up key, following the same "absent" semantics Bound(key) and
// Bound(key, default) rely on.
func (b Bindings) Get(key string) (any, bool) {
	v, ok := b[key]
	return v, ok
}

func mergeBindings(a, b Bindings) Bindings {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(Bindings, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// BoolResult is a Result[bool] paired with the Bindings accumulated while
// producing it (spec §4.1 "bind(r, key, subject)... implementation may pair
// Ok(bool) with a bindings dict").
type BoolResult struct {
	r      Result[bool]
	binds  Bindings
}

func OkBool(v bool) BoolResult            { return BoolResult{r: Ok(v)} }
func OkBoolBound(v bool, b Bindings) BoolResult { return BoolResult{r: Ok(v), binds: b} }
func NotLoadedBool(reqs []Request) BoolResult { return BoolResult{r: NotLoaded[bool](reqs)} }
func ErrBool(err error) BoolResult         { return BoolResult{r: Err[bool](err)} }

func (b BoolResult) Kind() Kind           { return b.r.Kind() }
func (b BoolResult) IsOk() bool           { return b.r.IsOk() }
func (b BoolResult) IsNotLoaded() bool    { return b.r.IsNotLoaded() }
func (b BoolResult) IsErr() bool          { return b.r.IsErr() }
func (b BoolResult) Value() (bool, bool)  { return b.r.Value() }
func (b BoolResult) Requests() []Request  { return b.r.Requests() }
func (b BoolResult) Error() error         { return b.r.Error() }
func (b BoolResult) Bindings() Bindings   { return b.binds }
func (b BoolResult) Result() Result[bool] { return b.r }

// Bind records key -> subject into b's bindings when b is Ok(true); passes
// b through unchanged otherwise (spec §4.1 "bind").
func Bind(b BoolResult, key string, subject any) BoolResult {
	v, ok := b.Value()
	if !ok || !v {
		return b
	}
	return OkBoolBound(v, b.binds.With(key, subject))
}

// Mode selects which combinator's truth table combine follows.
type Mode int

const (
	ModeAll Mode = iota
	ModeAny
	ModeFirst
)

// combine implements the truth table in spec §4.1. acc is the accumulator
// so far (or the mode's identity element before the first step); next is
// the newest element's result. It returns the new accumulator and whether
// the reduction should halt.
func combine(acc, next BoolResult, mode Mode) (out BoolResult, halt bool) {
	if next.IsErr() {
		return next, true
	}
	if next.IsNotLoaded() {
		merged := concatRequests(acc.Requests(), next.Requests())
		return NotLoadedBool(merged), false
	}

	nv, _ := next.Value()

	switch acc.Kind() {
	case KindOk:
		switch mode {
		case ModeAll:
			if !nv {
				return OkBool(false), true
			}
			return OkBoolBound(true, mergeBindings(acc.binds, next.binds)), false
		default: // ModeAny, ModeFirst
			if nv {
				return next, true
			}
			return OkBoolBound(false, acc.binds), false
		}
	case KindNotLoaded:
		switch mode {
		case ModeAll:
			if !nv {
				return OkBool(false), true
			}
			// next true: still pending on the earlier requests.
			return acc, false
		case ModeAny:
			if nv {
				return next, true
			}
			return acc, false
		default: // ModeFirst
			if nv {
				// An earlier element is still pending; it may resolve
				// true first, so we cannot skip ahead to this later
				// match (spec §4.1 footnote, testable property 3).
				return acc, true
			}
			return acc, false
		}
	default:
		// acc is never Err: any Err halts the reduction immediately.
		return acc, true
	}
}

func identity(mode Mode) BoolResult {
	if mode == ModeAll {
		return OkBool(true)
	}
	return OkBool(false)
}

// reduce folds f over elems under mode, honoring combine's halt signal so
// elements after a halt are never visited — the deterministic left-to-right
// order the spec's request-accumulation semantics depend on (spec §5).
func reduce[E any](elems []E, f func(E) BoolResult, mode Mode) BoolResult {
	acc := identity(mode)
	for _, e := range elems {
		next := f(e)
		var halt bool
		acc, halt = combine(acc, next, mode)
		if halt {
			return acc
		}
	}
	return acc
}

// All is the all? reducer: conjunction over elems, short-circuiting to
// Ok(false) the moment one element determines false, absorbing Err, and
// otherwise accumulating NotLoaded requests (spec §4.1).
func All[E any](elems []E, f func(E) BoolResult) BoolResult {
	return reduce(elems, f, ModeAll)
}

// Any is the any? reducer: disjunction over elems, short-circuiting to
// Ok(true) the moment one element determines true (spec §4.1).
func Any[E any](elems []E, f func(E) BoolResult) BoolResult {
	return reduce(elems, f, ModeAny)
}

// First is like Any but never skips past an earlier pending element to a
// later Ok(true): once an earlier element is NotLoaded, it must resolve
// before a later true can be trusted (spec §4.1, testable property 3).
func First[E any](elems []E, f func(E) BoolResult) BoolResult {
	return reduce(elems, f, ModeFirst)
}

// Find iterates enum under First semantics; on the first element whose
// condFn yields Ok(true) it returns thenFn(elem, bindings); on exhaustion
// (all Ok(false)) it returns Ok(def) — the "no rule matched" sentinel for
// rule matching (spec §4.1 "find", §4.4).
func Find[E any, T any](enum []E, condFn func(E) BoolResult, thenFn func(E, Bindings) Result[T], def T) Result[T] {
	acc := identity(ModeFirst)
	for _, e := range enum {
		next := condFn(e)
		merged, halt := combine(acc, next, ModeFirst)
		if halt {
			switch merged.Kind() {
			case KindErr:
				return Err[T](merged.Error())
			case KindNotLoaded:
				return NotLoaded[T](merged.Requests())
			default:
				return thenFn(e, merged.Bindings())
			}
		}
		acc = merged
	}
	switch acc.Kind() {
	case KindNotLoaded:
		return NotLoaded[T](acc.Requests())
	default:
		return Ok(def)
	}
}
