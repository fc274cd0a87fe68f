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
package flowguard

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/term"
	log "github.com/sirupsen/logrus"
)

// Request bundles the four terminal names the CLI resolves against the term
// table before invoking Run (spec.md §6, "Inputs").
type Request struct {
	Source      *term.Slice
	SourceValid string
	Sink        *term.Term
	Reset       string
	Filtered    map[string]bool
}

// Run drives the full FlowGuard core (spec.md §4.H, phases 1-7) over an
// already-imported module and term table, appending every synthesized
// declaration, continuous assignment, always-block and black-box
// replacement instance to module. It never mutates or removes an existing
// item (spec §3, "Lifecycle").
//
// On ErrSinkUnreachable the module is returned unchanged, per spec §7's
// ConfigError policy: "the tool still emits unchanged output with a
// warning" — the caller is expected to log that warning and continue.
func (e *Engine) Run(module *ast.Module, req Request) (*Synthesis, error) {
	e.phase1(req.Sink)
	g := e.phase2(req.Source, req.Sink)
	if len(g.target) == 0 {
		log.WithFields(log.Fields{"source": req.Source.String(), "sink": req.Sink.Name}).
			Warn("flowguard: sink not reachable from source, emitting unchanged output")
		return nil, ErrSinkUnreachable
	}
	chain := e.phase3(g)

	synth, err := e.Synthesize(chain, g, req.Source, req.SourceValid, req.Reset, req.Filtered)
	if err != nil {
		return nil, err
	}

	repl := e.ReplaceMemories(module, chain, synth)
	for _, inst := range repl.Instances {
		module.Items = append(module.Items, inst)
	}
	synth.Decls = append(synth.Decls, repl.Decls...)
	synth.Assigns = append(synth.Assigns, repl.Assigns...)
	synth.Always = append(synth.Always, repl.Always...)

	if len(synth.Checks) > 0 {
		counterDecl, counterAlways := e.cycleCounter(chain, req.Reset)
		synth.Decls = append(synth.Decls, counterDecl)
		synth.Always = append(synth.Always, counterAlways)
	}

	for _, d := range synth.Decls {
		module.AddDeclaration(d)
	}
	for _, a := range synth.Assigns {
		module.AddAssign(a)
	}
	for _, a := range synth.Always {
		module.AddAlways(a)
	}

	log.WithFields(log.Fields{
		"chain_slices": len(chain.Slices),
		"checks":       len(synth.Checks),
	}).Info("flowguard: instrumentation complete")
	return synth, nil
}

// cycleCounter builds the free-running cycle counter injected alongside the
// loss reports, whose $display prints $time (spec §4.J), clocked on whichever
// clock drives the most DFF nodes in the propagation chain.
func (e *Engine) cycleCounter(chain *Chain, reset string) (*ast.Declaration, *ast.Always) {
	var clocks []struct {
		Signal string
		Edge   ast.Edge
	}
	for key := range chain.DFF {
		clock := e.clockOf(chain, chain.index[key])
		clocks = append(clocks, struct {
			Signal string
			Edge   ast.Edge
		}{clock.Signal, clock.Edge})
	}
	signal, edge := instrument.MostFrequentClock(clocks)
	if signal == "" {
		signal, edge = "clock", ast.Posedge
	}
	return instrument.CycleCounter("__CYCLE_COUNTER__", instrument.DefaultCycleCounterWidth, signal, edge, reset)
}
