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
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

// DualClockFIFO models an asynchronous FIFO: data written on wrclk feeds q
// read on rdclk (spec §4.I).
type DualClockFIFO struct {
	Module string
}

// ModuleName returns the instantiated module name this model handles.
func (f *DualClockFIFO) ModuleName() string { return f.Module }

// Bind synthesizes a data -> q edge tagged with this model's name, clocked
// (for DFF-classification purposes) on the read clock.
func (f *DualClockFIFO) Bind(table *term.Table, inst *ast.Instance) {
	bindPort(table, inst, f, "data", "q", "rdclk")
}

// Instrument clones inst with its data port replaced by the tracked valid
// signal.
func (f *DualClockFIFO) Instrument(inst *ast.Instance, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error) {
	return cloneWithValidPort(inst, "data", "q", slices, esc)
}

// SingleClockFIFO models a synchronous FIFO: data and q both clocked on
// clock (spec §4.I).
type SingleClockFIFO struct {
	Module string
}

// ModuleName returns the instantiated module name this model handles.
func (f *SingleClockFIFO) ModuleName() string { return f.Module }

// Bind synthesizes a data -> q edge tagged with this model's name.
func (f *SingleClockFIFO) Bind(table *term.Table, inst *ast.Instance) {
	bindPort(table, inst, f, "data", "q", "clock")
}

// Instrument clones inst with its data port replaced by the tracked valid
// signal.
func (f *SingleClockFIFO) Instrument(inst *ast.Instance, slices []*term.Slice, esc func(*term.Slice) (string, error)) (Replacement, error) {
	return cloneWithValidPort(inst, "data", "q", slices, esc)
}

// Default returns the standard registry of provided models (spec §4.I),
// named after the conventional vendor IP names they replace.
func Default() *Registry {
	return NewRegistry(
		&SinglePortRAM{Module: "altsyncram_1port"},
		&DualPortRAM{Module: "altsyncram_2port"},
		&DualClockFIFO{Module: "dcfifo"},
		&SingleClockFIFO{Module: "scfifo"},
	)
}
