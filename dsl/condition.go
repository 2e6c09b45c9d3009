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

// Package dsl declares the Condition and ValueTemplate ASTs (spec §3). Both
// are explicit tagged variants rather than runtime type inspection over a
// dynamic value, per the design note in spec §9: "Use an explicit tagged
// variant, not runtime type inspection."
package dsl

// Condition is a node in the condition tree (spec §3 "Condition (DSL)").
// The concrete types below are the only implementations; the unexported
// method keeps the set closed to this package.
type Condition interface {
	isCondition()
}

// Lit matches the current subject against Value by equality, using the
// type-aware compare escape when the subject implements it (spec §3
// "literal" / "typed literal", §4.2 rules 9 and 11).
type Lit struct{ Value any }

// Predicate is an atom predicate name: it is resolved against the subject
// and the result is coerced to == true (spec §3 "predicate-name", §4.2
// rule 10).
type Predicate struct{ Name string }

// FieldCond is one entry of a "map of {key -> sub-condition}" conjunction
// (spec §3 "map of {key -> sub-condition}", §4.2 rule 3).
type FieldCond struct {
	Key  string
	Cond Condition
}

// All is a conjunction over its entries: resolve Key on the subject, then
// recurse into Cond against the resolved value. Order is declaration order
// and is load-bearing for request accumulation (spec §5).
type All struct{ Entries []FieldCond }

// Any is a disjunction over a list of conditions (spec §3 "list of
// conditions", §4.2 rule 2).
type Any struct{ Conds []Condition }

// Not negates c's boolean result (spec §3 "Not(c)", §4.2 rule 4).
type Not struct{ Cond Condition }

// Ref resolves Path against the root subject (or, if FromArgs, against the
// evaluation's arg bag), then recurses with the resolved value *as the
// condition* against the current subject unchanged (spec §3 "Ref(path)" /
// "Ref([:args | path])", §4.2 rule 5: "recurse with the resolved value as
// condition"). A resolved Condition recurses directly; any other resolved
// value is treated as an implicit Lit, so the canonical use — "current
// subject equals the value at path X" — falls out without a separate node.
type Ref struct {
	Path     []string
	FromArgs bool
}

// Bind evaluates Cond; if it yields true, Key -> current subject is also
// recorded into the active bindings (spec §3 "Bind(key, c)", §4.2 rule 7).
type Bind struct {
	Key  string
	Cond Condition
}

// Args is only meaningful when the current subject is the root subject: it
// switches the subject to the arg bag and evaluates Cond (spec §3
// "Args(c)", §4.2 rule 8, open question 1 in §9).
type Args struct{ Cond Condition }

func (Lit) isCondition()       {}
func (Predicate) isCondition() {}
func (All) isCondition()       {}
func (Any) isCondition()       {}
func (Not) isCondition()       {}
func (Ref) isCondition()       {}
func (Bind) isCondition()      {}
func (Args) isCondition()      {}
