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

// Package domainvalue defines the minimal capability contract the engine
// requires of record subjects (spec §6 "Record capability contract"), plus
// the few structural-value helpers (sequence detection, equality, three-way
// compare) every other package borrows instead of reaching for reflection
// ad hoc.
package domainvalue

import (
	"reflect"

	"github.com/spf13/cast"
)

// TypeTag identifies a record's runtime type for rule registry lookup
// (spec §3 "Rule... bound to a type tag").
type TypeTag string

// Ordering is the three-way result of a Comparable.Compare call.
type Ordering int

const (
	Less Ordering = iota - 1
	Equivalent
	Greater
)

// Record is the capability contract a subject must satisfy to be resolved
// by name and to have its fields fetched (spec §6, items 1-2).
type Record interface {
	// Type returns the record's type tag.
	Type() TypeTag
	// Field looks up key, returning (value, true) when present. A present
	// but not-yet-fetched association returns (NotLoadedMarker{...}, true);
	// Field returns (nil, false) only when the key genuinely doesn't exist
	// on the record.
	Field(key string) (any, bool)
}

// Comparable is optionally implemented by field values to support the
// type-aware `compare` escape for typed-literal equality (spec §3, §6
// item 3). Compare returns ok=false when the two values aren't of
// comparable types, in which case the caller falls back to structural
// equality.
type Comparable interface {
	Compare(other any) (ord Ordering, ok bool)
}

// Reconstructable is implemented by typed record values that can be rebuilt
// from a new field map after a ValueTemplate has projected each field
// (spec §3 "a typed record — project its fields, then reconstruct with the
// same type tag").
type Reconstructable interface {
	Record
	WithFields(fields map[string]any) any
}

// NotLoadedMarker is the sentinel Record.Field returns for an association
// that exists on the record but whose value hasn't been fetched from the
// backing store yet.
type NotLoadedMarker struct {
	// Assoc names the association the loader must resolve.
	Assoc string
}

// AsSequence reports whether v should be treated as a sequence subject
// (spec §4.2 rule 1) and, if so, returns its elements. Strings are
// deliberately excluded: they are scalars in this domain, not sequences of
// runes.
func AsSequence(v any) (elems []any, ok bool) {
	if v == nil {
		return nil, false
	}
	if _, isStr := v.(string); isStr {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

// Equal reports structural equality between a resolved subject and a
// condition literal, coercing numeric/bool/string kinds across Go's
// distinct representations via spf13/cast before falling back to
// reflect.DeepEqual (spec §4.2 rule 11, "fallback ... structural equality").
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	if af, aerr := cast.ToFloat64E(a); aerr == nil {
		if bf, berr := cast.ToFloat64E(b); berr == nil {
			return af == bf
		}
	}
	if as, aerr := cast.ToStringE(a); aerr == nil {
		if bs, berr := cast.ToStringE(b); berr == nil {
			return as == bs
		}
	}
	return false
}

// CompareTyped applies the type-aware compare escape: if subject implements
// Comparable, it is used; otherwise the two values are compared with Equal
// (spec §3 "typed literal", §4.2 rule 9).
func CompareTyped(subject, literal any) bool {
	if c, ok := subject.(Comparable); ok {
		if ord, ok := c.Compare(literal); ok {
			return ord == Equivalent
		}
	}
	return Equal(subject, literal)
}

// Truthy coerces a resolved predicate result to a boolean via cast,
// matching spec §4.2 rule 10 ("resolve the predicate on subject, compare
// result to true"). Non-boolean, non-coercible values are not truthy.
func Truthy(v any) bool {
	b, err := cast.ToBoolE(v)
	return err == nil && b
}
