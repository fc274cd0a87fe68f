// Copyright the veripass contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package memmodel implements the black-box memory models of spec.md §4.I:
// a static, capability-object table (not a runtime plugin loader, per spec
// §9) keyed by instantiated module name, each synthesizing zero-delay
// data-flow edges from data inputs to data outputs and, when instrumented,
// a one-bit replacement instance carrying the valid signal.
package memmodel

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

// Port pairs a data-input port name with the data-output port(s) it feeds
// combinationally/sequentially inside the black box.
type Port struct {
	DataIn   string
	DataOuts []string
}

// Model is implemented by every registered black-box memory IP (spec §4.I).
type Model interface {
	// ModuleName is the instantiated module name this model handles.
	ModuleName() string
	// Bind synthesizes zero-delay data-flow edges from each data input to
	// each data output of inst, tagged with this model's name as assigntype,
	// and records them as bindings against table.
	Bind(table *term.Table, inst *ast.Instance)
	// Instrument emits a 1-bit-wide clone of inst, replaying the real IP's
	// own internal latency: the clone's data port is driven by the tracked
	// data input's av signal and its output port lands on a fresh wire,
	// reported back as Replacement.ShadowValid so the caller can fold it
	// into the tracked data output's valid signal (spec §4.H Phase 7, §4.I).
	// slices is the engine's full propagation chain, searched by port name
	// since a Model cannot import the flowguard package that owns Chain.
	Instrument(inst *ast.Instance, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error)
}

// Replacement is what Instrument returns: zero or more new instances,
// declarations, continuous assignments and always-blocks to append to the
// module (spec §4.H Phase 7), plus the shadow-wiring hint the caller uses to
// fold the clone's replayed output into the downstream valid signal.
type Replacement struct {
	Instances []*ast.Instance
	Decls     []*ast.Declaration
	Assigns   []*ast.ContinuousAssign
	Always    []*ast.Always

	// ShadowValid is the wire carrying the clone's replayed output valid
	// bit. DownstreamValid is the name of the tracked data-output slice's
	// own valid wire it should be OR-ed into. Both are empty when neither
	// side of the model's ports lies on the propagation chain.
	ShadowValid     string
	DownstreamValid string
}

// Registry is the static table of known black-box models, keyed by module
// name (spec §9: "a static table keyed by module name").
type Registry struct {
	models map[string]Model
}

// NewRegistry constructs a registry pre-populated with the provided models
// (spec §4.I: single/dual-port RAM, dual-clock FIFO, single-clock FIFO).
func NewRegistry(models ...Model) *Registry {
	r := &Registry{models: make(map[string]Model)}
	for _, m := range models {
		r.models[m.ModuleName()] = m
	}
	return r
}

// Lookup returns the model registered for a module name, if any.
func (r *Registry) Lookup(moduleName string) (Model, bool) {
	m, ok := r.models[moduleName]
	return m, ok
}

// AssignType returns the assigntype string a model's synthesized bindings
// carry: its module name (spec §3: "any other token that matches a
// registered black-box model name identifies a memory edge").
func AssignType(m Model) term.AssignType {
	return term.AssignType(m.ModuleName())
}
