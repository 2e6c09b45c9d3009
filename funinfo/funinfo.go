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

// Package funinfo normalizes per-function argument annotations into a
// fixed-arity list (spec §4.6). It is a synchronous, I/O-free validator:
// every error it can raise is raised at construction time, never during
// evaluation.
package funinfo

import (
	"strconv"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/inferrules/ruleengine/rerrors"
)

// ArgInfo carries per-argument flags a scope-pushdown compiler (out of
// scope for this engine, spec §1) would consult to decide how an argument
// may be pre-loaded or rewritten. The engine itself only validates and
// normalizes these; it never interprets them during FnCall projection.
type ArgInfo struct {
	PreloadScope bool
	AtomToScope  bool
}

// New merges override onto default, with explicit false values in
// override winning over an inherited true (spec §4.6 "ArgInfo.new!").
func (def ArgInfo) New(override ArgInfo, overridden map[string]bool) ArgInfo {
	out := def
	if overridden["preload_scope"] {
		out.PreloadScope = override.PreloadScope
	}
	if overridden["atom_to_scope"] {
		out.AtomToScope = override.AtomToScope
	}
	return out
}

// FunInfo is an immutable description of a named function of fixed arity
// (spec §3 "FunInfo", §4.6).
type FunInfo struct {
	Module        string
	FunName       string
	Arity         int
	Args          []ArgInfo
	CanReturnScope bool
	WarnNotOk     bool
	WarnAlways    bool
}

// ArgSpec is the raw, not-yet-normalized per-argument annotation a function
// registration supplies: either by position (Positional, a list of at most
// Arity annotations), or as a sparse map keyed by position, or by
// the :first/:last/:all sentinels (spec §4.6).
type ArgSpec struct {
	// Positional holds a []ArgInfo of length <= arity (spec §4.6 step 4).
	Positional []ArgInfo

	// ByPosition holds overrides keyed by exact argument index (spec §4.6
	// step 2, "Integer keys").
	ByPosition map[int]ArgInfo

	// First, if non-nil, seeds position 0 (spec §4.6 ":first -> 0").
	First *ArgInfo
	// Last, if non-nil, seeds position arity-1 (spec §4.6 ":last ->
	// arity-1").
	Last *ArgInfo
	// All, if non-nil, is the default seed merged into every position
	// before First/Last/ByPosition overrides are applied (spec §4.6
	// step 2, "pop :all as the default ArgInfo seed").
	All *ArgInfo
}

// New validates and normalizes module/funName/arity/args into a FunInfo,
// raising a ConfigError that aggregates every problem found rather than
// failing on the first one (spec §4.6 step 1-2; SPEC_FULL.md §7 on using
// go-multierror for this).
func New(module, funName string, arity int, args ArgSpec, canReturnScope, warnNotOk, warnAlways bool) (FunInfo, error) {
	if arity < 0 {
		return FunInfo{}, rerrors.ErrConfig.New("arity must be >= 0, got " + strconv.Itoa(arity))
	}

	var merr *multierror.Error

	def := ArgInfo{}
	if args.All != nil {
		def = *args.All
	}

	normalized := make([]ArgInfo, arity)
	for i := range normalized {
		normalized[i] = def
	}

	apply := func(pos int, override ArgInfo, overriddenKeys map[string]bool) {
		if pos < 0 || pos >= arity {
			merr = multierror.Append(merr, rerrors.ErrConfig.New("argument position out of range: "+strconv.Itoa(pos)))
			return
		}
		normalized[pos] = normalized[pos].New(override, overriddenKeys)
	}

	allKeys := map[string]bool{"preload_scope": true, "atom_to_scope": true}

	if args.First != nil {
		apply(0, *args.First, allKeys)
	}
	if args.Last != nil {
		apply(arity-1, *args.Last, allKeys)
	}
	for pos, ov := range args.ByPosition {
		apply(pos, ov, allKeys)
	}

	if len(args.Positional) > 0 {
		if len(args.Positional) > arity {
			merr = multierror.Append(merr, rerrors.ErrConfig.New("positional args longer than arity"))
		} else {
			for i, ov := range args.Positional {
				normalized[i] = ov
			}
			// Step 3: fill unspecified positions with the default — the
			// tail past len(args.Positional) keeps its def-seeded value,
			// already in place from the initial fill above.
		}
	}

	if merr != nil {
		return FunInfo{}, rerrors.ErrConfig.New(merr.Error())
	}

	return FunInfo{
		Module:         module,
		FunName:        funName,
		Arity:          arity,
		Args:           normalized,
		CanReturnScope: canReturnScope,
		WarnNotOk:      warnNotOk,
		WarnAlways:     warnAlways,
	}, nil
}
