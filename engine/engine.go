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

// Package engine wires the rule registry, ConditionEvaluator, ValueProjector
// and Loader together behind the resolve/fetch bridge (spec §4.5). Engine is
// the top-level type a host constructs once and re-invokes in a trampoline
// loop until a Resolve call stops returning NotLoaded (spec §5).
package engine

import (
	"github.com/opentracing/opentracing-go"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/engineconfig"
	"github.com/inferrules/ruleengine/evalctx"
	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
	"github.com/inferrules/ruleengine/rules"
)

// Engine holds the rule registry and loader a resolve/fetch bridge needs;
// it is safe for concurrent use since it performs no I/O and holds no
// mutable state of its own (spec §5 "single-threaded, synchronous, and
// re-entrant").
type Engine struct {
	Registry rules.Registry
	Loader   loader.Loader
	Config   engineconfig.Config
}

// New builds an Engine from its three collaborators.
func New(cfg engineconfig.Config, reg rules.Registry, ld loader.Loader) *Engine {
	return &Engine{Registry: reg, Loader: ld, Config: cfg}
}

// resolverAdapter satisfies evalctx.Resolver by delegating back into the
// engine, keeping the low-level evalctx/condition/template packages free of
// a direct dependency on engine (which in turn depends on both of them).
type resolverAdapter struct{ eng *Engine }

func (a resolverAdapter) Resolve(name string, subject any, eval evalctx.Eval) resultalgebra.Result[any] {
	return a.eng.resolveField(name, subject, eval)
}

// Resolve is the host-facing trampoline entrypoint (spec §4.5, §5: "the
// host re-invokes the engine... until an Ok or Err is produced"). cache is
// the opaque handle threaded to Loader.Lookup unread by the engine itself.
// When Config.Trace is set, the whole call is bracketed by one opentracing
// span (domain-stack addition, §5).
func (e *Engine) Resolve(name string, subject any, cache any) resultalgebra.Result[any] {
	eval := evalctx.New(subject, e.Loader, cache).WithResolver(resolverAdapter{eng: e})
	if e.Config.Debug {
		eval = eval.WithDebug(true, e.Config.DebugPretty, nil)
	}
	if e.Config.Trace {
		span := opentracing.StartSpan("ruleengine.Resolve")
		span.SetTag("name", name)
		defer span.Finish()
	}
	return e.resolveField(name, subject, eval)
}

// resolveField is the recursive resolve(name, subject, eval) bridge (spec
// §4.5): typed records with matching rules delegate to RuleMatcher; records
// with no rules for this name, and plain mappings, fall straight through to
// a field fetch.
func (e *Engine) resolveField(name string, subject any, eval evalctx.Eval) resultalgebra.Result[any] {
	if rec, ok := subject.(domainvalue.Record); ok {
		if rs := e.Registry.Rules(rec.Type(), name); len(rs) > 0 {
			matched := rules.Match(rs, subject, eval)
			return resultalgebra.Then(matched, func(v any) resultalgebra.Result[any] {
				if v == rules.NoMatch {
					return evalctx.Fetch(subject, name, eval)
				}
				return resultalgebra.Ok(v)
			})
		}
	}
	return evalctx.Fetch(subject, name, eval)
}
