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

// Package evalctx holds the runtime context threaded through one
// evaluation tree (spec §3 "Evaluation"). An Eval is cheap to copy by
// value: ConditionEvaluator and ValueProjector derive variant Evals (a
// different subject, a different Binds) rather than mutating a shared one,
// which is what keeps bindings local to their rule (spec §5).
package evalctx

import (
	"github.com/sirupsen/logrus"

	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
)

// Eval is the evaluation context: root subject, current arg bag, active
// bindings, loader/cache handles, and the debug flag (spec §3).
type Eval struct {
	// RootSubject is stable across the whole evaluation subtree; Ref(path)
	// (without :args) and Args(c) resolve against it.
	RootSubject any

	// Args is the optional external argument bag referenced via
	// Ref([:args | path]) (spec glossary "Args").
	Args any

	// Binds is local to the rule currently being evaluated; see
	// resultalgebra.Bindings for the locality guarantee.
	Binds resultalgebra.Bindings

	// Loader resolves NotLoaded requests; the engine only reads through it
	// (spec §5 "Shared resources").
	Loader loader.Loader

	// Cache is an opaque handle passed through to Loader.Lookup unread by
	// the engine itself.
	Cache any

	// Debug turns on the one-line-per-rule-attempt trace (spec §4.2,
	// §6 "Debug output").
	Debug bool

	// DebugPretty renders the trace's condition, and a matched rule's
	// value, via kr/pretty instead of the one-line summary (SPEC_FULL.md
	// ambient stack addition).
	DebugPretty bool

	// Log receives the debug trace; defaults to a no-op logger so the
	// engine never needs a nil check at every call site.
	Log logrus.FieldLogger

	// Resolver implements the resolve(name, subject, eval) bridge (spec
	// §4.5). Set by Engine.Resolve; condition and template only
	// ever call through this field, never the engine package directly.
	Resolver Resolver
}

var noopLog = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return logrus.NewEntry(l)
}()

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// New builds an Eval rooted at subject, with ld and cache wired in. Binds
// starts empty and Debug off; use the With* methods to adjust.
func New(subject any, ld loader.Loader, cache any) Eval {
	return Eval{
		RootSubject: subject,
		Binds:       resultalgebra.Bindings{},
		Loader:      ld,
		Cache:       cache,
		Log:         noopLog,
	}
}

// WithBinds returns a copy of e with Binds replaced. Used when entering a
// fresh rule attempt (spec §5: "bindings recorded inside a Bind are only
// visible to the value projection of the same rule").
func (e Eval) WithBinds(b resultalgebra.Bindings) Eval {
	e.Binds = b
	return e
}

// WithArgs returns a copy of e with Args replaced.
func (e Eval) WithArgs(args any) Eval {
	e.Args = args
	return e
}

// WithRootSubject returns a copy of e with RootSubject replaced. RuleMatcher
// calls this on entry (spec §4.4 step 1: "Set eval.root_subject ← subject"):
// each rule-matching subtree re-roots Ref/Args resolution at the record
// currently being resolved, not at some outer global root.
func (e Eval) WithRootSubject(subject any) Eval {
	e.RootSubject = subject
	return e
}

// WithResolver returns a copy of e with Resolver replaced.
func (e Eval) WithResolver(r Resolver) Eval {
	e.Resolver = r
	return e
}

// WithDebug returns a copy of e with Debug/DebugPretty/Log set.
func (e Eval) WithDebug(on, pretty bool, log logrus.FieldLogger) Eval {
	e.Debug = on
	e.DebugPretty = pretty
	if log != nil {
		e.Log = log
	}
	return e
}
