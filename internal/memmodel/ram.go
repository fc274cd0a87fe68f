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
package memmodel

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/term"
)

// SinglePortRAM models a single-port synchronous RAM: data_a feeds q_a,
// clocked on clock0 (spec §4.I).
type SinglePortRAM struct {
	Module string
}

// ModuleName returns the instantiated module name this model handles.
func (r *SinglePortRAM) ModuleName() string { return r.Module }

// Bind synthesizes a data_a -> q_a edge tagged with this model's name.
func (r *SinglePortRAM) Bind(table *term.Table, inst *ast.Instance) {
	bindPort(table, inst, r, "data_a", "q_a", "clock0")
}

// Instrument clones inst with its data port replaced by the tracked valid
// signal, preserving the RAM's one-cycle latency (spec §4.H Phase 7).
func (r *SinglePortRAM) Instrument(inst *ast.Instance, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error) {
	return cloneWithValidPort(inst, "data_a", "q_a", slices, esc)
}

// DualPortRAM models a dual-port synchronous RAM: data_a and data_b each
// feed both q_a and q_b, clocked on clock0 (spec §4.I).
type DualPortRAM struct {
	Module string
}

// ModuleName returns the instantiated module name this model handles.
func (r *DualPortRAM) ModuleName() string { return r.Module }

// Bind synthesizes data_a/data_b -> q_a/q_b edges tagged with this model's
// name.
func (r *DualPortRAM) Bind(table *term.Table, inst *ast.Instance) {
	bindPort(table, inst, r, "data_a", "q_a", "clock0")
	bindPort(table, inst, r, "data_a", "q_b", "clock0")
	bindPort(table, inst, r, "data_b", "q_a", "clock0")
	bindPort(table, inst, r, "data_b", "q_b", "clock0")
}

// Instrument clones inst with its data port replaced by the tracked valid
// signal; the a-side port pair is the one chosen to carry the replayed
// latency when both a and b sides happen to sit on the chain.
func (r *DualPortRAM) Instrument(inst *ast.Instance, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error) {
	return cloneWithValidPort(inst, "data_a", "q_a", slices, esc)
}

func bindPort(table *term.Table, inst *ast.Instance, m Model, dataPort, qPort, clockSignal string) {
	dataExpr, ok := inst.Ports[dataPort]
	if !ok {
		return
	}
	qName := fmt.Sprintf("%s.%s", inst.Name, qPort)
	dest, ok := table.Lookup(qName)
	if !ok {
		return
	}
	table.AddBinding(&term.Binding{
		Dest:   dest,
		Source: dataExpr,
		Assign: AssignType(m),
		Clock:  term.Clock{Signal: clockSignal, Edge: ast.Posedge},
	})
	classifyModelPort(table, dest.Name, dest.Width)
	if id, ok := dataExpr.(*ast.Identifier); ok {
		if src, ok := table.Lookup(id.Name); ok {
			classifyModelPort(table, src.Name, src.Width)
		}
	}
}

// classifyModelPort marks every bit of a black-box model's data port as a
// DFF output (spec §3: "Black-box inputs and outputs are both injected into
// the DFF set with a null clock"). Classification is monotonic (merged via
// DFFMask.Merge), so repeated calls across a dual-port RAM's data_a/data_b/
// q_a/q_b bindings on the same term are harmless. The error is ignored: an
// InconsistentClassification here would mean the same bit was also written
// combinationally elsewhere, which phase3's per-edge AssignType check still
// catches independently.
func classifyModelPort(table *term.Table, name string, width uint) {
	if width == 0 {
		return
	}
	_ = table.ClassifyBits(name, width, int(width)-1, 0, true)
}

// sliceForPort finds the chain slice, if any, whose term is connected to
// inst's named port: the anchor cloneWithValidPort uses to name both the
// clone's data input (the tracked data port's own av signal) and the
// downstream signal its replayed output feeds back into.
func sliceForPort(inst *ast.Instance, port string, slices []*term.Slice) *term.Slice {
	id, ok := inst.Ports[port].(*ast.Identifier)
	if !ok {
		return nil
	}
	for _, s := range slices {
		if s.Term.Name == id.Name {
			return s
		}
	}
	return nil
}

// cloneWithValidPort builds the one-bit replacement instance of spec.md
// §4.H Phase 7 / §4.I: a second copy of the same black-box IP, fed the
// tracked data input's av signal instead of real data, so its output port
// replays the IP's own internal latency without the engine needing to know
// it. The clone's output is reported as Replacement.ShadowValid; the caller
// folds it into the tracked data-output slice's valid wire (DownstreamValid)
// rather than this function driving that wire directly, since phase5 has
// already synthesized its single continuous assign by the time Phase 7 runs.
func cloneWithValidPort(inst *ast.Instance, dataPort, qPort string, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error) {
	dataSlice := sliceForPort(inst, dataPort, slices)
	qSlice := sliceForPort(inst, qPort, slices)
	if dataSlice == nil || qSlice == nil {
		return Replacement{}, nil
	}

	dataName, err := esc(dataSlice)
	if err != nil {
		return Replacement{}, err
	}
	qName, err := esc(qSlice)
	if err != nil {
		return Replacement{}, err
	}

	avWire := instrument.SignalName(dataName, dataSlice.Range.Present, dataSlice.Range.Msb, dataSlice.Range.Lsb, instrument.SuffixAV)
	qValidWire := instrument.SignalName(qName, qSlice.Range.Present, qSlice.Range.Msb, qSlice.Range.Lsb, instrument.SuffixValid)
	shadowOut := fmt.Sprintf("%s__VALID_OUT__", inst.Name)

	ports := make(map[string]ast.Expr, len(inst.Ports))
	for k, v := range inst.Ports {
		ports[k] = v
	}
	ports[dataPort] = &ast.Identifier{Name: avWire}
	ports[qPort] = &ast.Identifier{Name: shadowOut}
	clone := &ast.Instance{
		Module: inst.Module,
		Name:   inst.Name + "__valid_shadow",
		Params: inst.Params,
		Ports:  ports,
	}

	return Replacement{
		Instances:       []*ast.Instance{clone},
		Decls:           []*ast.Declaration{{Name: shadowOut, Kind: ast.Wire, Width: 1}},
		ShadowValid:     shadowOut,
		DownstreamValid: qValidWire,
	}, nil
}
