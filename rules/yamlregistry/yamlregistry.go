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

// Package yamlregistry is a reference rules.Registry that parses rule sets
// from YAML into dsl.Condition/dsl.ValueTemplate trees. It stands in for
// the surface macro DSL spec.md places out of scope (§1) — a minimal
// textual front end for exercising the engine end to end in tests and
// examples, not a production rule-authoring language.
//
// FnCall and RecordT have no YAML representation here: both need a Go-side
// callable or builder function that text can't carry. Rules using either
// must be constructed programmatically with the dsl package directly.
package yamlregistry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/inferrules/ruleengine/domainvalue"
	"github.com/inferrules/ruleengine/dsl"
	"github.com/inferrules/ruleengine/rules"
)

type rawDoc struct {
	Rules map[string]map[string][]rawRule `yaml:"rules"`
}

type rawRule struct {
	Key  string       `yaml:"key"`
	When rawCondition `yaml:"when"`
	Val  rawTemplate  `yaml:"val"`
}

type rawCondition struct {
	Lit       *rawLit        `yaml:"lit,omitempty"`
	Predicate string         `yaml:"predicate,omitempty"`
	All       []rawFieldCond `yaml:"all,omitempty"`
	Any       []rawCondition `yaml:"any,omitempty"`
	Not       *rawCondition  `yaml:"not,omitempty"`
	RefArgs   *rawRef        `yaml:"ref_args,omitempty"`
	Ref       *rawRef        `yaml:"ref,omitempty"`
	Bind      *rawBind       `yaml:"bind,omitempty"`
	Args      *rawCondition  `yaml:"args,omitempty"`
}

type rawLit struct {
	Value any `yaml:"value"`
}

type rawFieldCond struct {
	Key  string       `yaml:"key"`
	When rawCondition `yaml:"when"`
}

type rawRef struct {
	Path []string `yaml:"path"`
}

type rawBind struct {
	Key  string       `yaml:"key"`
	Cond rawCondition `yaml:"cond"`
}

type rawTemplate struct {
	Lit   *rawLit         `yaml:"lit,omitempty"`
	Ref   *rawTemplateRef `yaml:"ref,omitempty"`
	Bound *rawBound       `yaml:"bound,omitempty"`
	Map   []rawFieldT     `yaml:"map,omitempty"`
	Seq   []rawTemplate   `yaml:"seq,omitempty"`
}

type rawTemplateRef struct {
	Path     []string `yaml:"path"`
	FromArgs bool     `yaml:"from_args"`
}

type rawBound struct {
	Key        string `yaml:"key"`
	HasDefault bool   `yaml:"has_default"`
	Default    any    `yaml:"default"`
}

type rawFieldT struct {
	Key      string      `yaml:"key"`
	Template rawTemplate `yaml:"template"`
}

// Registry is a rules.Registry backed by a parsed YAML document, keyed by
// type tag and predicate name.
type Registry struct {
	byKey map[string][]rules.Rule
}

func registryKey(tag domainvalue.TypeTag, name string) string {
	return string(tag) + "." + name
}

// Rules implements rules.Registry.
func (r *Registry) Rules(tag domainvalue.TypeTag, name string) []rules.Rule {
	return r.byKey[registryKey(tag, name)]
}

// Load parses a YAML file at path into a Registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML bytes into a Registry, for in-memory fixtures.
func Parse(data []byte) (*Registry, error) {
	var doc rawDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	reg := &Registry{byKey: map[string][]rules.Rule{}}
	for tag, byName := range doc.Rules {
		for name, rawRules := range byName {
			converted := make([]rules.Rule, 0, len(rawRules))
			for _, rr := range rawRules {
				cond, err := toCondition(rr.When)
				if err != nil {
					return nil, fmt.Errorf("%s.%s rule %q: %w", tag, name, rr.Key, err)
				}
				tmpl, err := toTemplate(rr.Val)
				if err != nil {
					return nil, fmt.Errorf("%s.%s rule %q: %w", tag, name, rr.Key, err)
				}
				converted = append(converted, rules.Rule{Key: rr.Key, When: cond, Val: tmpl})
			}
			reg.byKey[registryKey(domainvalue.TypeTag(tag), name)] = converted
		}
	}
	return reg, nil
}

func toCondition(r rawCondition) (dsl.Condition, error) {
	switch {
	case r.Lit != nil:
		return dsl.Lit{Value: r.Lit.Value}, nil
	case r.Predicate != "":
		return dsl.Predicate{Name: r.Predicate}, nil
	case r.All != nil:
		entries := make([]dsl.FieldCond, 0, len(r.All))
		for _, fc := range r.All {
			sub, err := toCondition(fc.When)
			if err != nil {
				return nil, err
			}
			entries = append(entries, dsl.FieldCond{Key: fc.Key, Cond: sub})
		}
		return dsl.All{Entries: entries}, nil
	case r.Any != nil:
		conds := make([]dsl.Condition, 0, len(r.Any))
		for _, c := range r.Any {
			sub, err := toCondition(c)
			if err != nil {
				return nil, err
			}
			conds = append(conds, sub)
		}
		return dsl.Any{Conds: conds}, nil
	case r.Not != nil:
		sub, err := toCondition(*r.Not)
		if err != nil {
			return nil, err
		}
		return dsl.Not{Cond: sub}, nil
	case r.RefArgs != nil:
		return dsl.Ref{Path: r.RefArgs.Path, FromArgs: true}, nil
	case r.Ref != nil:
		return dsl.Ref{Path: r.Ref.Path}, nil
	case r.Bind != nil:
		sub, err := toCondition(r.Bind.Cond)
		if err != nil {
			return nil, err
		}
		return dsl.Bind{Key: r.Bind.Key, Cond: sub}, nil
	case r.Args != nil:
		sub, err := toCondition(*r.Args)
		if err != nil {
			return nil, err
		}
		return dsl.Args{Cond: sub}, nil
	default:
		return nil, fmt.Errorf("empty condition node")
	}
}

func toTemplate(t rawTemplate) (dsl.ValueTemplate, error) {
	switch {
	case t.Lit != nil:
		return dsl.LitT{Value: t.Lit.Value}, nil
	case t.Ref != nil:
		return dsl.RefT{Path: t.Ref.Path, FromArgs: t.Ref.FromArgs}, nil
	case t.Bound != nil:
		return dsl.BoundT{Key: t.Bound.Key, HasDefault: t.Bound.HasDefault, Default: t.Bound.Default}, nil
	case t.Map != nil:
		fields := make([]dsl.FieldT, 0, len(t.Map))
		for _, f := range t.Map {
			sub, err := toTemplate(f.Template)
			if err != nil {
				return nil, err
			}
			fields = append(fields, dsl.FieldT{Key: f.Key, Template: sub})
		}
		return dsl.MapT{Fields: fields}, nil
	case t.Seq != nil:
		elems := make([]dsl.ValueTemplate, 0, len(t.Seq))
		for _, e := range t.Seq {
			sub, err := toTemplate(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, sub)
		}
		return dsl.SeqT{Elems: elems}, nil
	default:
		return nil, fmt.Errorf("empty value template node")
	}
}
