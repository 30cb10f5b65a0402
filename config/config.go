/*
   Copyright 2024 The goap Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config loads named action defaults and state/goal fixtures from
// YAML, for assembling example scenarios and integration tests. Neither
// the planner nor the agent executor ever read YAML themselves: both only
// ever consume goap.Action/goap.State values built from a Library.
package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Library is a named bundle of action defaults and state/goal fixtures,
	// as parsed from a YAML document.
	Library struct {
		// Defaults holds fallback ActionConfig-shaped values, keyed by
		// action name (cost, timeout, async_exec, auto_reset).
		Defaults map[string]ActionDefaults `yaml:"defaults"`
		// Fixtures holds named state/goal pairs, keyed by scenario name.
		Fixtures map[string]Fixture `yaml:"fixtures"`
	}

	// ActionDefaults is the subset of an action's declaration that makes
	// sense to externalize as data: cost, timeout, and the two boolean
	// execution-mode flags. Preconditions/effects/callbacks stay in code,
	// since they carry behavior config can't express.
	ActionDefaults struct {
		Cost      float64
		Timeout   time.Duration
		AsyncExec bool
		AutoReset bool
	}

	// Fixture is a named initial-state/goal pair for an example scenario.
	Fixture struct {
		State map[string]any `yaml:"state"`
		Goal  map[string]any `yaml:"goal"`
	}

	// rawActionDefaults is the YAML-decodable shape of ActionDefaults.
	// yaml.v3 has no special handling for time.Duration fields (it only
	// accepts a bare integer, resolved as nanoseconds); timeout is decoded
	// as a duration string instead and parsed explicitly below, the same
	// workaround the routing config in itsneelabh-gomind's
	// pkg/routing/workflow.go uses for its own per-step timeout.
	rawActionDefaults struct {
		Cost      float64 `yaml:"cost"`
		Timeout   string  `yaml:"timeout"`
		AsyncExec bool    `yaml:"async_exec"`
		AutoReset bool    `yaml:"auto_reset"`
	}

	rawLibrary struct {
		Defaults map[string]rawActionDefaults `yaml:"defaults"`
		Fixtures map[string]Fixture           `yaml:"fixtures"`
	}
)

// LoadLibrary parses a YAML document from r into a Library.
func LoadLibrary(r io.Reader) (*Library, error) {
	var raw rawLibrary
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode library: %w", err)
	}

	lib := &Library{
		Defaults: make(map[string]ActionDefaults, len(raw.Defaults)),
		Fixtures: raw.Fixtures,
	}
	for name, rd := range raw.Defaults {
		d := ActionDefaults{Cost: rd.Cost, AsyncExec: rd.AsyncExec, AutoReset: rd.AutoReset}
		if rd.Timeout != "" {
			dur, err := time.ParseDuration(rd.Timeout)
			if err != nil {
				return nil, fmt.Errorf("config: parse timeout for %q: %w", name, err)
			}
			d.Timeout = dur
		}
		lib.Defaults[name] = d
	}
	if lib.Fixtures == nil {
		lib.Fixtures = map[string]Fixture{}
	}
	return lib, nil
}

// Default returns the ActionDefaults registered for name, or the zero
// value (no override) if name has no entry.
func (l *Library) Default(name string) ActionDefaults {
	return l.Defaults[name]
}

// Fixture returns the named fixture and whether it was found.
func (l *Library) Fixture(name string) (Fixture, bool) {
	f, ok := l.Fixtures[name]
	return f, ok
}
