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

// Package engineconfig holds the engine-wide knobs spec.md leaves to the
// embedding host to decide: whether debug tracing defaults on, which form
// it takes, and whether per-Resolve spans are emitted.
package engineconfig

import "github.com/BurntSushi/toml"

// Config is the struct-of-knobs an Engine is constructed with, following
// the teacher's own sqle.Config shape.
type Config struct {
	// Debug turns on the one-line-per-rule-attempt trace by default.
	Debug bool `toml:"debug"`

	// DebugPretty renders the trace's condition, and a matched rule's
	// value, via kr/pretty instead of the one-line summary.
	DebugPretty bool `toml:"debug_pretty"`

	// Trace brackets each top-level Resolve call with an opentracing span.
	Trace bool `toml:"trace"`

	// FunInfoRegistryPath is a default lookup path a host may use to load
	// its FunInfo registry; the engine itself never reads this field.
	FunInfoRegistryPath string `toml:"fun_info_registry_path"`
}

// Load parses a TOML file at path into a Config.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
