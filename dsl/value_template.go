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

package dsl

import "github.com/inferrules/ruleengine/domainvalue"

// ValueTemplate is a node in the value projection tree (spec §3
// "ValueTemplate"). As with Condition, the set of concrete types is closed
// to this package.
type ValueTemplate interface {
	isValueTemplate()
}

// LitT passes Value through unchanged: "anything else — passed through
// unchanged" (spec §3).
type LitT struct{ Value any }

// RefT projects from the root subject, or from the arg bag when FromArgs
// is set (spec §3 "Ref([:args | path])" / "Ref(path)").
type RefT struct {
	Path     []string
	FromArgs bool
}

// Call is a tuple whose first element is a callable; each Args entry is
// recursively projected, in order, before Fn is applied (spec §3
// "FnCall(f, arg1...argn)", §4.3: "must project all arguments in order...
// before applying the callable").
type Call struct {
	Fn   Callable
	Args []ValueTemplate
}

// Callable is a pure function from projected argument values to a result.
// Any panic/error it raises surfaces as an Err (spec §4.3).
type Callable interface {
	Name() string
	Call(args []any) (any, error)
}

// BoundT looks up Key in the active bindings. If HasDefault is false and
// Key is absent, projection errors with a KeyError; if HasDefault is true,
// Default is returned instead (spec §3 "Bound(key)" / "Bound(key,
// default)").
type BoundT struct {
	Key        string
	HasDefault bool
	Default    any
}

// FieldT is one entry of a MapT.
type FieldT struct {
	Key      string
	Template ValueTemplate
}

// MapT projects every value of an ordered field list (spec §3 "a map —
// project every value"). Entries are ordered so that NotLoaded request
// accumulation follows a deterministic left-to-right order (spec §5); the
// resulting Go map has no observable order of its own.
type MapT struct{ Fields []FieldT }

// SeqT projects every element of a sequence (spec §3 "a sequence — project
// every element").
type SeqT struct{ Elems []ValueTemplate }

// RecordT projects the fields of a typed record and reconstructs a value
// of the same type tag from the projected fields (spec §3 "a typed record
// — project its fields, then reconstruct with the same type tag"). Build,
// if set, overrides reconstruction; if nil, projection falls back to the
// current subject's own domainvalue.Reconstructable.WithFields, since Go
// has no generic way to rebuild an arbitrary concrete struct type from a
// field map without either hook.
type RecordT struct {
	Tag    domainvalue.TypeTag
	Fields []FieldT
	Build  func(tag domainvalue.TypeTag, fields map[string]any) any
}

func (LitT) isValueTemplate()   {}
func (RefT) isValueTemplate()   {}
func (Call) isValueTemplate()   {}
func (BoundT) isValueTemplate() {}
func (MapT) isValueTemplate()   {}
func (SeqT) isValueTemplate()   {}
func (RecordT) isValueTemplate() {}
