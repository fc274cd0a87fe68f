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
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/term"
	log "github.com/sirupsen/logrus"
)

// ReplaceMemories implements spec.md §4.H Phase 7: for each instance of a
// registered black-box model that touches the propagation chain, its
// instrument hook is invoked once, and the returned replacement items are
// collected. synth is phase5's already-built Synthesis: the clone's replayed
// output is folded into the tracked data-output slice's existing valid wire
// there rather than driving a second, conflicting continuous assign onto it.
func (e *Engine) ReplaceMemories(module *ast.Module, chain *Chain, synth *Synthesis) memmodel.Replacement {
	var out memmodel.Replacement
	if e.Models == nil {
		return out
	}
	esc := instrument.NewEscaper()
	nameOf := func(s *term.Slice) (string, error) { return esc.Escape(s.Term.Name) }

	for _, inst := range module.Instances() {
		model, ok := e.Models.Lookup(inst.Module)
		if !ok {
			continue
		}
		if !anySliceTouches(chain.Slices, inst) {
			continue
		}
		// Instrument exactly once per instance: data_a and q_a (and, on a
		// dual-port RAM, data_b/q_b) are all chain slices of the same
		// instance in the normal case, and each would otherwise produce its
		// own identically-named shadow instance.
		repl, err := model.Instrument(inst, chain.Slices, nameOf)
		if err != nil {
			log.WithFields(log.Fields{"instance": inst.Name, "model": inst.Module, "error": err}).
				Warn("flowguard: phase7 memory replacement failed")
			continue
		}
		out.Instances = append(out.Instances, repl.Instances...)
		out.Decls = append(out.Decls, repl.Decls...)
		out.Assigns = append(out.Assigns, repl.Assigns...)
		out.Always = append(out.Always, repl.Always...)
		if repl.ShadowValid != "" && repl.DownstreamValid != "" {
			foldShadowValid(synth, repl.DownstreamValid, repl.ShadowValid)
		}
		log.WithFields(log.Fields{"instance": inst.Name, "model": inst.Module}).
			Debug("flowguard: phase7 memory replacement")
	}
	return out
}

// foldShadowValid ORs the clone's replayed output into the existing
// continuous assign driving downstreamValid, rather than appending a second
// driver for the same wire. The DFF always-block for this slice already
// copies its valid wire into valid_q every cycle (phase5.go), so valid_q
// picks up the correction transitively on the next clock edge.
func foldShadowValid(synth *Synthesis, downstreamValid, shadowValid string) {
	for _, a := range synth.Assigns {
		id, ok := a.LHS.(*ast.Identifier)
		if !ok || id.Name != downstreamValid {
			continue
		}
		a.RHS = bexp.Simplify(bexp.Or(a.RHS, &ast.Identifier{Name: shadowValid}))
		return
	}
}

// anySliceTouches reports whether any chain slice's term is one of inst's
// connected ports, i.e. whether inst is a candidate for replacement at all.
func anySliceTouches(slices []*term.Slice, inst *ast.Instance) bool {
	for _, n := range slices {
		if touchesInstance(n, inst) {
			return true
		}
	}
	return false
}

// touchesInstance reports whether slice n's term is one of inst's connected
// ports, i.e. whether n is a candidate for this instance's replacement.
func touchesInstance(n *term.Slice, inst *ast.Instance) bool {
	for _, port := range inst.Ports {
		id, ok := port.(*ast.Identifier)
		if ok && id.Name == n.Term.Name {
			return true
		}
	}
	return false
}
