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

package rules

import (
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
)

type fieldResolver struct{}

func (fieldResolver) Resolve(name string, subject any, eval evalctx.Eval) resultalgebra.Result[any] {
	return evalctx.Fetch(subject, name, eval)
}

var emptyLoader = loader.Func(func(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
	return resultalgebra.NotLoaded[any](nil)
})

func newEval(subject any) evalctx.Eval {
	return evalctx.New(subject, emptyLoader, nil).WithResolver(fieldResolver{})
}

// TestMatchRuleWithBind reproduces spec scenario S5: a rule `{k:"adult",
// when: {age: Not(Lit(0))}, val: {status: Bound(:ignored, "n/a")}}` against
// subject `{age: 30}` should yield Ok({status: "n/a"}).
func TestMatchRuleWithBind(t *testing.T) {
	subject := map[string]any{"age": 30}
	eval := newEval(subject)

	rule := Rule{
		Key:  "adult",
		When: dsl.All{Entries: []dsl.FieldCond{{Key: "age", Cond: dsl.Not{Cond: dsl.Lit{Value: 0}}}}},
		Val: dsl.MapT{Fields: []dsl.FieldT{
			{Key: "status", Template: dsl.BoundT{Key: "ignored", HasDefault: true, Default: "n/a"}},
		}},
	}

	r := Match([]Rule{rule}, subject, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, map[string]any{"status": "n/a"}, v)
}

func TestMatchReturnsNoMatchSentinelOnExhaustion(t *testing.T) {
	subject := map[string]any{"age": 10}
	eval := newEval(subject)

	rule := Rule{
		Key:  "adult",
		When: dsl.All{Entries: []dsl.FieldCond{{Key: "age", Cond: dsl.Lit{Value: 999}}}},
		Val:  dsl.LitT{Value: "unreachable"},
	}

	r := Match([]Rule{rule}, subject, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, NoMatch, v)
}

func TestMatchStopsAtFirstMatchingRule(t *testing.T) {
	subject := map[string]any{"age": 30}
	eval := newEval(subject)

	rules := []Rule{
		{Key: "first", When: dsl.Lit{Value: subject}, Val: dsl.LitT{Value: "first"}},
		{Key: "second", When: dsl.Lit{Value: subject}, Val: dsl.LitT{Value: "second"}},
	}

	r := Match(rules, subject, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "first", v)
}

func TestMatchEmitsDebugTraceOnMatch(t *testing.T) {
	subject := map[string]any{"age": 30}
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	eval := newEval(subject).WithDebug(true, false, logrus.NewEntry(log))

	rule := Rule{
		Key:  "adult",
		When: dsl.All{Entries: []dsl.FieldCond{{Key: "age", Cond: dsl.Not{Cond: dsl.Lit{Value: 0}}}}},
		Val:  dsl.LitT{Value: "eligible"},
	}

	r := Match([]Rule{rule}, subject, eval)
	_, ok := r.Value()
	require.True(t, ok)

	require.NotEmpty(t, hook.Entries)
	last := hook.LastEntry()
	require.Equal(t, "adult", last.Data["rule_key"])
	require.Equal(t, "eligible", last.Data["value"])
}

func TestMatchAbortsOnErr(t *testing.T) {
	subject := map[string]any{"age": 30}
	eval := newEval(subject)

	rules := []Rule{
		{Key: "bad", When: dsl.All{Entries: []dsl.FieldCond{{Key: "missing", Cond: dsl.Lit{Value: 1}}}}, Val: dsl.LitT{Value: "x"}},
	}

	r := Match(rules, subject, eval)
	require.True(t, r.IsErr())
}
