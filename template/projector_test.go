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

package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
)

type fieldResolver struct{}

func (fieldResolver) Resolve(name string, subject any, eval evalctx.Eval) resultalgebra.Result[any] {
	return evalctx.Fetch(subject, name, eval)
}

func newEval(subject any, ld loader.Loader) evalctx.Eval {
	return evalctx.New(subject, ld, nil).WithResolver(fieldResolver{})
}

var emptyLoader = loader.Func(func(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
	return resultalgebra.NotLoaded[any](nil)
})

func TestProjectLitTPassesThroughUnchanged(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	r := Project(dsl.LitT{Value: "n/a"}, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "n/a", v)
}

func TestProjectRefTFromRootSubject(t *testing.T) {
	subject := map[string]any{"name": "alice"}
	eval := newEval(subject, emptyLoader)
	r := Project(dsl.RefT{Path: []string{"name"}}, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "alice", v)
}

func TestProjectRefTFromArgs(t *testing.T) {
	subject := map[string]any{}
	eval := newEval(subject, emptyLoader).WithArgs(map[string]any{"min_age": 21})
	r := Project(dsl.RefT{Path: []string{"min_age"}, FromArgs: true}, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 21, v)
}

func TestProjectBoundTReturnsBoundValue(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	eval = eval.WithBinds(resultalgebra.Bindings{}.With("matched", "snapshot"))
	r := Project(dsl.BoundT{Key: "matched"}, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "snapshot", v)
}

func TestProjectBoundTFallsBackToDefault(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	r := Project(dsl.BoundT{Key: "missing", HasDefault: true, Default: "n/a"}, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, "n/a", v)
}

func TestProjectBoundTErrorsWhenAbsentWithoutDefault(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	r := Project(dsl.BoundT{Key: "missing"}, eval)
	require.True(t, r.IsErr())
	require.Contains(t, r.Error().Error(), "missing")
}

func TestProjectMapTProjectsEveryField(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.MapT{Fields: []dsl.FieldT{
		{Key: "status", Template: dsl.LitT{Value: "n/a"}},
		{Key: "score", Template: dsl.LitT{Value: 7}},
	}}
	r := Project(tmpl, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, map[string]any{"status": "n/a", "score": 7}, v)
}

func TestProjectSeqTProjectsEveryElement(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.SeqT{Elems: []dsl.ValueTemplate{
		dsl.LitT{Value: 1},
		dsl.LitT{Value: 2},
	}}
	r := Project(tmpl, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, []any{1, 2}, v)
}

type addCallable struct{}

func (addCallable) Name() string { return "add" }
func (addCallable) Call(args []any) (any, error) {
	sum := 0
	for _, a := range args {
		n, ok := a.(int)
		if !ok {
			return nil, errors.New("add: non-int argument")
		}
		sum += n
	}
	return sum, nil
}

func TestProjectCallProjectsArgsInOrderThenApplies(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.Call{Fn: addCallable{}, Args: []dsl.ValueTemplate{
		dsl.LitT{Value: 2},
		dsl.LitT{Value: 3},
	}}
	r := Project(tmpl, eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 5, v)
}

func TestProjectCallSurfacesCallableErrorAsErr(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.Call{Fn: addCallable{}, Args: []dsl.ValueTemplate{
		dsl.LitT{Value: "not an int"},
	}}
	r := Project(tmpl, eval)
	require.True(t, r.IsErr())
	require.Contains(t, r.Error().Error(), "add")
}

func TestProjectCallAccumulatesNotLoadedAcrossArgsBeforeApplying(t *testing.T) {
	subject := map[string]any{
		"a": domainvalue.NotLoadedMarker{Assoc: "a"},
		"b": domainvalue.NotLoadedMarker{Assoc: "b"},
	}
	pending := loader.Func(func(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
		return resultalgebra.NotLoaded[any]([]resultalgebra.Request{resultalgebra.NewRequest("x", container, key)})
	})
	eval := newEval(subject, pending)
	tmpl := dsl.Call{Fn: addCallable{}, Args: []dsl.ValueTemplate{
		dsl.RefT{Path: []string{"a"}},
		dsl.RefT{Path: []string{"b"}},
	}}
	r := Project(tmpl, eval)
	require.True(t, r.IsNotLoaded())
	require.Len(t, r.Requests(), 2)
}

type account struct {
	name string
	age  int
}

func (a account) Type() domainvalue.TypeTag { return "account" }
func (a account) Field(key string) (any, bool) {
	switch key {
	case "name":
		return a.name, true
	case "age":
		return a.age, true
	default:
		return nil, false
	}
}
func (a account) WithFields(fields map[string]any) any {
	rebuilt := a
	if name, ok := fields["name"].(string); ok {
		rebuilt.name = name
	}
	return rebuilt
}

func TestProjectRecordTFallsBackToSubjectReconstructableWithoutBuild(t *testing.T) {
	subject := account{name: "alice", age: 30}
	eval := newEval(subject, emptyLoader)
	tmpl := dsl.RecordT{
		Tag:    "account",
		Fields: []dsl.FieldT{{Key: "name", Template: dsl.LitT{Value: "bob"}}},
	}
	r := Project(tmpl, eval)
	v, ok := r.Value()
	require.True(t, ok)
	rebuilt, ok := v.(account)
	require.True(t, ok)
	require.Equal(t, "bob", rebuilt.name)
	require.Equal(t, 30, rebuilt.age)
}

func TestProjectRecordTErrorsWithoutBuildOrReconstructableSubject(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.RecordT{
		Tag:    "account",
		Fields: []dsl.FieldT{{Key: "name", Template: dsl.LitT{Value: "bob"}}},
	}
	r := Project(tmpl, eval)
	require.True(t, r.IsErr())
}

func TestProjectRecordTReconstructsWithSameTag(t *testing.T) {
	eval := newEval(map[string]any{}, emptyLoader)
	tmpl := dsl.RecordT{
		Tag:    "user",
		Fields: []dsl.FieldT{{Key: "name", Template: dsl.LitT{Value: "alice"}}},
		Build: func(tag domainvalue.TypeTag, fields map[string]any) any {
			return struct {
				Tag    domainvalue.TypeTag
				Fields map[string]any
			}{Tag: tag, Fields: fields}
		},
	}
	r := Project(tmpl, eval)
	v, ok := r.Value()
	require.True(t, ok)
	rebuilt := v.(struct {
		Tag    domainvalue.TypeTag
		Fields map[string]any
	})
	require.Equal(t, domainvalue.TypeTag("user"), rebuilt.Tag)
	require.Equal(t, "alice", rebuilt.Fields["name"])
}
