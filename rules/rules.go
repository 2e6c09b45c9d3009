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

// Package rules declares the Rule type, the Registry lookup contract, and
// the RuleMatcher that finds the first matching rule for a predicate on a
// record (spec §3 "Rule", §4.4 "RuleMatcher").
package rules

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"

	"github.com/inferrules/ruleengine/condition"
	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/resultalgebra"
	"github.com/inferrules/ruleengine/template"
)

// Rule is `{key, when: Condition, val: ValueTemplate}` bound to a type tag
// (spec §3 "Rule"). Rules for a given predicate on a given type form an
// ordered list; order is declaration order and is semantically significant
// (first match wins).
type Rule struct {
	Key  string
	When dsl.Condition
	Val  dsl.ValueTemplate
}

// Registry answers "which rules, in declaration order, apply to predicate
// name on records tagged tag" (spec §4.5 "consult the rule registry keyed
// by (subject.type, name)"). An empty/nil slice means no rules exist for
// that (tag, name) pair, which sends resolve to the field-fetch fallback.
type Registry interface {
	Rules(tag domainvalue.TypeTag, name string) []Rule
}

type noMatch struct{}

// NoMatch is the sentinel Match returns when every rule's condition
// evaluates to Ok(false) (spec §4.4 step 3: "exhaustion... returns the
// sentinel 'no match'"). Callers (the engine's resolve/fetch bridge)
// compare the returned value against NoMatch to decide whether to fall
// back to a field fetch.
var NoMatch any = noMatch{}

// Match runs RuleMatcher over rules against subject (spec §4.4):
//  1. root_subject is re-anchored at subject for the duration of this match.
//  2. Find iterates rules under first semantics, evaluating When against
//     subject and, on the first true, projecting Val with the bindings that
//     condition attempt recorded.
//  3. Exhaustion (every rule Ok(false)) yields Ok(NoMatch).
func Match(rules []Rule, subject any, eval evalctx.Eval) resultalgebra.Result[any] {
	eval = eval.WithRootSubject(subject)
	return resultalgebra.Find(
		rules,
		func(r Rule) resultalgebra.BoolResult {
			result := condition.Evaluate(r.When, subject, eval)
			traceAttempt(eval, r, subject, result, nil)
			return result
		},
		func(r Rule, binds resultalgebra.Bindings) resultalgebra.Result[any] {
			projected := template.Project(r.Val, eval.WithBinds(binds))
			traceAttempt(eval, r, subject, resultalgebra.OkBool(true), &projected)
			return projected
		},
		NoMatch,
	)
}

// traceAttempt emits the §4.2/§6 debug trace line for one rule attempt: the
// subject's type, the rule key, and the condition it was tried against,
// plus the projected value once a rule has matched. Off unless eval.Debug.
func traceAttempt(eval evalctx.Eval, r Rule, subject any, cond resultalgebra.BoolResult, projected *resultalgebra.Result[any]) {
	if !eval.Debug {
		return
	}
	fields := logrus.Fields{
		"subject_type": subjectTypeName(subject),
		"rule_key":     r.Key,
	}
	if eval.DebugPretty {
		fields["condition"] = fmt.Sprintf("%# v", pretty.Formatter(r.When))
	} else {
		fields["condition"] = fmt.Sprintf("%T", r.When)
	}
	if projected != nil {
		if v, ok := projected.Value(); ok {
			if eval.DebugPretty {
				fields["value"] = fmt.Sprintf("%# v", pretty.Formatter(v))
			} else {
				fields["value"] = v
			}
		}
	}
	eval.Log.WithFields(fields).Debug("rule attempt")
}

func subjectTypeName(subject any) string {
	if rec, ok := subject.(domainvalue.Record); ok {
		return string(rec.Type())
	}
	return fmt.Sprintf("%T", subject)
}
