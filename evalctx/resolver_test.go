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
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/loader"
	"github.com/inferrules/ruleengine/rerrors"
	"github.com/inferrules/ruleengine/resultalgebra"
)

func TestFetchReturnsOkForPresentField(t *testing.T) {
	subject := map[string]any{"age": 30}
	eval := New(subject, loader.Func(nil), nil)
	r := Fetch(subject, "age", eval)
	v, ok := r.Value()
	require.True(t, ok)
	require.Equal(t, 30, v)
}

func TestFetchReturnsKeyErrorForAbsentField(t *testing.T) {
	subject := map[string]any{"age": 30}
	eval := New(subject, loader.Func(nil), nil)
	r := Fetch(subject, "missing", eval)
	require.True(t, r.IsErr())
}

var errBackend = errors.New("backend unavailable")

func TestFetchWrapsLoaderErrWithContainerAndKeyWithoutLosingCause(t *testing.T) {
	subject := map[string]any{"owner": domainvalue.NotLoadedMarker{Assoc: "owner"}}
	failing := loader.Func(func(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
		return resultalgebra.Err[any](errBackend)
	})
	eval := New(subject, failing, nil)

	r := Fetch(subject, "owner", eval)
	require.True(t, r.IsErr())
	require.Contains(t, r.Error().Error(), "owner")
	require.ErrorIs(t, pkgerrors.Cause(r.Error()), errBackend)
	require.True(t, rerrors.ErrLoader.Is(r.Error()))
}

func TestFetchPassesThroughNotLoadedWithoutWrapping(t *testing.T) {
	subject := map[string]any{"owner": domainvalue.NotLoadedMarker{Assoc: "owner"}}
	pending := loader.Func(func(cache any, kind loader.Kind, container any, key string) resultalgebra.Result[any] {
		return resultalgebra.NotLoaded[any]([]resultalgebra.Request{resultalgebra.NewRequest("owner", subject, key)})
	})
	eval := New(subject, pending, nil)

	r := Fetch(subject, "owner", eval)
	require.True(t, r.IsNotLoaded())
	require.Len(t, r.Requests(), 1)
}
