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

// Package condition implements the recursive ConditionEvaluator (spec
// §4.2): Evaluate reduces a Condition tree against a subject to a
// three-valued boolean result, carrying any bindings a Bind node records.
package condition

import (
	"reflect"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/resultalgebra"
)

// Evaluate dispatches on the shape of subject first, then of cond (spec
// §4.2: "subject shape is checked first, so list-subject gives element-wise
// disjunction before the list-condition rule applies. This is a
// load-bearing tie-break.").
func Evaluate(cond dsl.Condition, subject any, eval evalctx.Eval) resultalgebra.BoolResult {
	// Rule 1: subject is a sequence -> disjunction over its elements.
	if elems, ok := domainvalue.AsSequence(subject); ok {
		return resultalgebra.Any(elems, func(e any) resultalgebra.BoolResult {
			return Evaluate(cond, e, eval)
		})
	}

	switch c := cond.(type) {
	case dsl.Any:
		// Rule 2: condition is a list -> disjunction over the list.
		return resultalgebra.Any(c.Conds, func(sub dsl.Condition) resultalgebra.BoolResult {
			return Evaluate(sub, subject, eval)
		})

	case dsl.All:
		// Rule 3: condition is a mapping -> conjunction over entries.
		return resultalgebra.All(c.Entries, func(fc dsl.FieldCond) resultalgebra.BoolResult {
			resolved := eval.Resolver.Resolve(fc.Key, subject, eval)
			return chainResolved(resolved, func(v any) resultalgebra.BoolResult {
				return Evaluate(fc.Cond, v, eval)
			})
		})

	case dsl.Not:
		// Rule 4: Not(c) -> evaluate c, negate the boolean.
		return negate(Evaluate(c.Cond, subject, eval))

	case dsl.Ref:
		var root any
		if c.FromArgs {
			root = eval.Args
		} else {
			root = eval.RootSubject
		}
		// Rules 5-6: resolve the path, then recurse with the resolved value
		// as the *condition*, against the current subject unchanged — NOT
		// as a new subject. "current subject equals the value at path X" is
		// the canonical use, falling out of treating a non-Condition
		// resolved value as an implicit Lit.
		resolved := evalctx.ResolvePath(root, c.Path, eval)
		return chainResolved(resolved, func(v any) resultalgebra.BoolResult {
			return Evaluate(asCondition(v), subject, eval)
		})

	case dsl.Bind:
		// Rule 7: evaluate c; on true, also record key -> subject.
		inner := Evaluate(c.Cond, subject, eval)
		return resultalgebra.Bind(inner, c.Key, subject)

	case dsl.Args:
		// Rule 8: only meaningful when subject IS the root subject (spec
		// §9 open question 1: the source silently fails to match
		// otherwise — preserved here as Ok(false) rather than an error).
		if !sameSubject(subject, eval.RootSubject) {
			return resultalgebra.OkBool(false)
		}
		return Evaluate(c.Cond, eval.Args, eval)

	case dsl.Predicate:
		// Rule 10: resolve the predicate on subject, compare to true.
		resolved := eval.Resolver.Resolve(c.Name, subject, eval)
		return chainResolved(resolved, func(v any) resultalgebra.BoolResult {
			return resultalgebra.OkBool(domainvalue.Truthy(v))
		})

	case dsl.Lit:
		// Rule 9 (typed literal via compare) and rule 11 (structural
		// equality fallback) both reduce to CompareTyped, which tries
		// Comparable first and falls back to Equal.
		return resultalgebra.OkBool(domainvalue.CompareTyped(subject, c.Value))

	default:
		return resultalgebra.OkBool(domainvalue.Equal(subject, cond))
	}
}

// chainResolved threads a Result[any] (e.g. from Resolve or ResolvePath)
// into a boolean continuation, propagating NotLoaded/Err instead of
// calling the continuation.
func chainResolved(r resultalgebra.Result[any], f func(any) resultalgebra.BoolResult) resultalgebra.BoolResult {
	switch r.Kind() {
	case resultalgebra.KindErr:
		return resultalgebra.ErrBool(r.Error())
	case resultalgebra.KindNotLoaded:
		return resultalgebra.NotLoadedBool(r.Requests())
	default:
		v, _ := r.Value()
		return f(v)
	}
}

// sameSubject reports whether subject IS the root subject for rule 8's
// "only meaningful when subject is the root subject" test — identity, not
// value equality: a nested subject that happens to structurally equal the
// root (e.g. two equal-valued records at different positions) must not
// false-trigger Args. Maps/slices/chans compare by their underlying
// pointer; comparable kinds compare with ==; domainvalue.Equal is only a
// last-resort fallback for uncomparable, non-reference kinds.
func sameSubject(subject, root any) bool {
	if subject == nil || root == nil {
		return subject == nil && root == nil
	}
	sv, rv := reflect.ValueOf(subject), reflect.ValueOf(root)
	if sv.Kind() != rv.Kind() {
		return false
	}
	switch sv.Kind() {
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return sv.Pointer() == rv.Pointer()
	case reflect.Slice:
		return sv.Pointer() == rv.Pointer() && sv.Len() == rv.Len()
	default:
		if sv.Comparable() {
			return subject == root
		}
		return domainvalue.Equal(subject, root)
	}
}

// asCondition treats a resolved value as a condition (spec §4.2 rule 5): a
// value that is itself a Condition recurses as one; anything else is an
// implicit Lit, giving Ref(path) its canonical equality-against-the-current-
// subject reading.
func asCondition(v any) dsl.Condition {
	if c, ok := v.(dsl.Condition); ok {
		return c
	}
	return dsl.Lit{Value: v}
}

func negate(r resultalgebra.BoolResult) resultalgebra.BoolResult {
	if v, ok := r.Value(); ok {
		return resultalgebra.OkBool(!v)
	}
	return r
}
