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

package evalctx

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/resultalgebra"
	"github.com/inferrules/ruleengine/rerrors"
)

// Resolver is the resolve(name, subject, eval) bridge from spec §4.5,
// injected into Eval rather than imported directly: ConditionEvaluator and
// ValueProjector only ever call eval.Resolver.Resolve, which keeps both
// packages free of a dependency on the engine package that implements
// rule-aware resolution (which in turn depends on both of them).
type Resolver interface {
	Resolve(name string, subject any, eval Eval) resultalgebra.Result[any]
}

// ResolvePath left-folds Resolver.Resolve over path starting at root; nil
// short-circuits to Ok(nil) (spec §4.5 "resolvePath").
func ResolvePath(root any, path []string, eval Eval) resultalgebra.Result[any] {
	cur := root
	for _, k := range path {
		if cur == nil {
			return resultalgebra.Ok[any](nil)
		}
		r := eval.Resolver.Resolve(k, cur, eval)
		v, ok := r.Value()
		if !ok {
			return r
		}
		cur = v
	}
	return resultalgebra.Ok(cur)
}

// Fetch performs the field-level half of resolve/fetch (spec §4.5
// "fetch"): look up key on container, transparently resolving a
// not-yet-loaded association marker through eval.Loader, or an Err(KeyError)
// if the key is genuinely absent.
func Fetch(container any, key string, eval Eval) resultalgebra.Result[any] {
	value, present, marker := lookupField(container, key)
	if !present {
		return resultalgebra.Err[any](rerrors.ErrKey.New(key))
	}
	if marker != nil {
		return wrapLoaderErr(eval.Loader.Lookup(eval.Cache, loader.Assoc, container, key), container, key)
	}
	return resultalgebra.Ok(value)
}

// wrapLoaderErr attaches the failing (container, key) to the loader's error
// and tags it as rerrors.ErrLoader, so a caller can identify a LoaderError
// by kind (rerrors.ErrLoader.Is(err)) without losing the underlying error's
// identity: pkg/errors.Cause(err) still unwraps through the context wrap
// down to whatever the loader originally returned (spec §7).
func wrapLoaderErr(r resultalgebra.Result[any], container any, key string) resultalgebra.Result[any] {
	if !r.IsErr() {
		return r
	}
	cause := r.Error()
	ctxErr := errors.Wrap(cause, fmt.Sprintf("fetch %s on %T", key, container))
	return resultalgebra.Err[any](rerrors.ErrLoader.Wrap(ctxErr, fmt.Sprintf("%T", container), key, cause.Error()))
}

func lookupField(container any, key string) (value any, present bool, marker *domainvalue.NotLoadedMarker) {
	var raw any
	switch c := container.(type) {
	case domainvalue.Record:
		v, ok := c.Field(key)
		if !ok {
			return nil, false, nil
		}
		raw = v
	case map[string]any:
		v, ok := c[key]
		if !ok {
			return nil, false, nil
		}
		raw = v
	default:
		return nil, false, nil
	}
	if m, ok := raw.(domainvalue.NotLoadedMarker); ok {
		return nil, true, &m
	}
	return raw, true, nil
}
