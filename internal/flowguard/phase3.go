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

import "github.com/efeslab/veripass/internal/term"

// Chain is the propagation-chain result of Phase 3: the subset of slices
// that lie on at least one source-to-sink path, plus which of them are DFF
// nodes (spec §3 "DFF set", §4.H Phase 3).
type Chain struct {
	Slices []*term.Slice
	index  map[term.Key]*term.Slice
	DFF    map[term.Key]bool
}

// InChain reports whether a slice (by key) is part of the propagation chain.
func (c *Chain) InChain(k term.Key) bool {
	_, ok := c.index[k]
	return ok
}

// Slice returns the canonical chain slice for a key, or nil.
func (c *Chain) Slice(k term.Key) *term.Slice {
	return c.index[k]
}

// phase3 walks reverse_map2 backwards from target_output, collecting every
// slice that reaches both source and sink (spec §4.H Phase 3). Because
// reverse_map2 was only ever populated by phase2's source-rooted walk, every
// edge in it already reaches the source; walking backward from the sink
// additionally restricts to slices that reach the sink.
func (e *Engine) phase3(g *graph) *Chain {
	chain := &Chain{index: make(map[term.Key]*term.Slice), DFF: make(map[term.Key]bool)}
	queue := append([]*term.Slice{}, g.target...)
	for _, s := range g.target {
		chain.index[s.Key()] = s
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if maskSaysDFF(e.Table, s) {
			chain.DFF[s.Key()] = true
		}
		for _, edge := range g.reverse[s.Key()] {
			if edge.Assign == term.Nonblocking || edge.Assign.IsModel() {
				// Black-box memory inputs/outputs are injected into the DFF
				// set with a null clock (spec §3, §4.I): the engine tracks
				// them as registered without itself owning their clock.
				chain.DFF[s.Key()] = true
			}
			if edge.Assign.IsModel() {
				// Both sides of a black-box edge are DFF (spec §3): the data
				// input is registered inside the model just like its output.
				chain.DFF[edge.Src.Key()] = true
			}
			src := edge.Src
			if maskSaysDFF(e.Table, src) {
				chain.DFF[src.Key()] = true
			}
			if _, seen := chain.index[src.Key()]; !seen {
				chain.index[src.Key()] = src
				queue = append(queue, src)
			}
		}
	}
	for _, s := range chain.index {
		chain.Slices = append(chain.Slices, s)
	}
	return chain
}

// maskSaysDFF consults the importer's per-bit DFF classification (spec §9,
// internal/term.Table.Mask) for every bit of slice s, independent of how any
// one edge happened to reach it. This is the authoritative source for plain
// register writes and (through memmodel's bindPort classification, spec §3) for
// black-box model ports; the per-edge AssignType checks above remain as a
// cheap, always-available fallback when a slice has no recorded mask at all
// (e.g. it was never itself the destination of a binding).
func maskSaysDFF(table *term.Table, s *term.Slice) bool {
	mask := table.Mask(s.Term.Name)
	if mask == nil {
		return false
	}
	msb, lsb := int(s.Term.Width)-1, 0
	if s.Range.Present {
		msb, lsb = s.Range.Msb, s.Range.Lsb
	}
	for i := lsb; i <= msb; i++ {
		if mask.IsDFF(uint(i)) {
			return true
		}
	}
	return false
}
