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

// Package template implements the recursive ValueProjector (spec §4.3):
// Project reduces a ValueTemplate tree, with refs, bound-variable lookups
// and function calls, down to a concrete Result[any].
package template

import (
	"fmt"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/rerrors"
	"github.com/inferrules/ruleengine/resultalgebra"
)

// Project dispatches on the shape of tmpl; recursion mirrors dsl.ValueTemplate
// (spec §3, §4.3).
func Project(tmpl dsl.ValueTemplate, eval evalctx.Eval) resultalgebra.Result[any] {
	switch t := tmpl.(type) {
	case dsl.LitT:
		// "anything else — passed through unchanged" (spec §3).
		return resultalgebra.Ok(t.Value)

	case dsl.RefT:
		var root any
		if t.FromArgs {
			root = eval.Args
		} else {
			root = eval.RootSubject
		}
		return evalctx.ResolvePath(root, t.Path, eval)

	case dsl.Call:
		// Project every argument in order first, accumulating NotLoaded
		// requests across all of them, before applying Fn (spec §4.3:
		// "must project all arguments in order... before applying the
		// callable").
		argsR := resultalgebra.Map(t.Args, func(a dsl.ValueTemplate) resultalgebra.Result[any] {
			return Project(a, eval)
		})
		return resultalgebra.Then(argsR, func(args []any) (out resultalgebra.Result[any]) {
			defer func() {
				if p := recover(); p != nil {
					out = resultalgebra.Err[any](rerrors.ErrCall.New(fmt.Sprintf("%s: panic: %v", t.Fn.Name(), p)))
				}
			}()
			v, err := t.Fn.Call(args)
			if err != nil {
				return resultalgebra.Err[any](rerrors.ErrCall.New(fmt.Sprintf("%s: %s", t.Fn.Name(), err)))
			}
			return resultalgebra.Ok(v)
		})

	case dsl.BoundT:
		if v, ok := eval.Binds.Get(t.Key); ok {
			return resultalgebra.Ok(v)
		}
		if t.HasDefault {
			return resultalgebra.Ok(t.Default)
		}
		return resultalgebra.Err[any](rerrors.Bound(t.Key))

	case dsl.MapT:
		return resultalgebra.Transform(projectFields(t.Fields, eval), func(m map[string]any) any { return m })

	case dsl.SeqT:
		elemsR := resultalgebra.Map(t.Elems, func(e dsl.ValueTemplate) resultalgebra.Result[any] {
			return Project(e, eval)
		})
		return resultalgebra.Transform(elemsR, func(elems []any) any { return elems })

	case dsl.RecordT:
		fieldsR := projectFields(t.Fields, eval)
		return resultalgebra.Then(fieldsR, func(fields map[string]any) resultalgebra.Result[any] {
			if t.Build != nil {
				return resultalgebra.Ok(t.Build(t.Tag, fields))
			}
			// No explicit Build: fall back to the current subject's own
			// Reconstructable.WithFields, the same type-specific rebuild
			// hook domainvalue.Reconstructable exists to provide.
			if rec, ok := eval.RootSubject.(domainvalue.Reconstructable); ok {
				return resultalgebra.Ok(rec.WithFields(fields))
			}
			return resultalgebra.Err[any](rerrors.ErrConfig.New(
				fmt.Sprintf("record template for %s has no Build and the subject is not Reconstructable", t.Tag)))
		})

	default:
		return resultalgebra.Err[any](rerrors.ErrConfig.New(fmt.Sprintf("unrecognized value template %T", tmpl)))
	}
}

// projectFields projects every dsl.FieldT's Template in declaration order,
// building a map[string]any keyed by Key. Order is preserved only for
// deterministic NotLoaded request accumulation (spec §5); the resulting Go
// map has no observable order of its own (spec §4.3).
func projectFields(fields []dsl.FieldT, eval evalctx.Eval) resultalgebra.Result[map[string]any] {
	out := make(map[string]any, len(fields))
	var reqs []resultalgebra.Request
	for _, f := range fields {
		r := Project(f.Template, eval)
		switch r.Kind() {
		case resultalgebra.KindErr:
			return resultalgebra.Err[map[string]any](r.Error())
		case resultalgebra.KindNotLoaded:
			reqs = append(reqs, r.Requests()...)
		default:
			v, _ := r.Value()
			out[f.Key] = v
		}
	}
	if len(reqs) > 0 {
		return resultalgebra.NotLoaded[map[string]any](reqs)
	}
	return resultalgebra.Ok(out)
}
