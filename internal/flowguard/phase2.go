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
	"github.com/efeslab/veripass/internal/dataflow"
	"github.com/efeslab/veripass/internal/term"
)

// graph is the slice-granularity result of Phase 2 (spec §3: reverse_map2 /
// forward_map2), plus the sink slices discovered along the way.
type graph struct {
	reverse map[term.Key][]Edge
	forward map[term.Key][]Edge
	target  []*term.Slice
}

// phase2 performs the source-rooted forward refinement BFS (spec §4.H Phase
// 2), consuming the term-granularity entries phase1 discovered.
func (e *Engine) phase2(source *term.Slice, sink *term.Term) *graph {
	g := &graph{reverse: make(map[term.Key][]Edge), forward: make(map[term.Key][]Edge)}
	queue := []*term.Slice{source}
	visited := map[term.Key]bool{source.Key(): true}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		// Every coarse entry whose source term equals s.Term is a candidate
		// destination to refine (spec §4.H Phase 2 step 1).
		for _, entries := range e.coarse {
			for _, entry := range entries {
				if entry.srcTerm != s.Term {
					continue
				}
				if !ptrMayMatch(entry.srcPtr, s.Ptr) {
					continue
				}
				b := findBinding(e, entry)
				if b == nil {
					continue // MissingBinding, recovered (spec §7)
				}
				dep, ok := e.Precise.Visit(s, b.SourceExpr(), b.Path)
				if !ok {
					continue
				}
				base := 0
				if b.Range.Present {
					base = b.Range.Lsb
				}
				dstSlice := &term.Slice{
					Term:  entry.dstTerm,
					Range: term.NewRange(dep.Msb+base, dep.Lsb+base),
					Ptr:   entry.dstPtr,
				}
				edge := Edge{Src: s, Dst: dstSlice, Path: dep.Path, Assign: entry.assign, Clock: entry.clock}
				g.addEdge(edge)

				if entry.dstTerm == sink {
					g.target = append(g.target, dstSlice)
				}
				if !visited[dstSlice.Key()] {
					visited[dstSlice.Key()] = true
					queue = append(queue, dstSlice)
				}
			}
		}
	}
	g.mergeAll()
	return g
}

// ptrMayMatch implements the "special rule that a reverse-map edge whose
// src-ptr is a terminal is always considered matching" (spec §4.H Phase 2
// step 1): a coarse entry whose recorded source access was a plain
// identifier (no array index) always matches, regardless of the queued
// slice's own index.
func ptrMayMatch(entryPtr, slicePtr term.Index) bool {
	if !entryPtr.Present {
		return true
	}
	if !slicePtr.Present {
		return true
	}
	if entryPtr.Const && slicePtr.Const {
		return entryPtr.Value == slicePtr.Value
	}
	return true
}

func findBinding(e *Engine, entry coarseEntry) *term.Binding {
	for _, b := range e.Table.Bindings(entry.dstTerm.Name) {
		if b.Range == entry.dstRange && b.Ptr == entry.dstPtr && b.Assign == entry.assign {
			return b
		}
	}
	return nil
}

func (g *graph) addEdge(e Edge) {
	dk, sk := e.Dst.Key(), e.Src.Key()
	for _, o := range g.reverse[dk] {
		if edgeEqual(o, e) {
			return
		}
	}
	g.reverse[dk] = append(g.reverse[dk], e)
	g.forward[sk] = append(g.forward[sk], e)
}

func edgeEqual(a, b Edge) bool {
	return a.Src.Key() == b.Src.Key() && a.Dst.Key() == b.Dst.Key() &&
		a.Assign == b.Assign && a.Clock == b.Clock && dataflow.Equal(a.Path, b.Path)
}

// mergeAll applies the two merge predicates of spec §4.H Phase 2 step 2 as
// two independent passes over each destination's edge list (spec §9: "should
// be expressed as two passes ... not interleaved, so the result is
// order-independent").
func (g *graph) mergeAll() {
	for k, edges := range g.reverse {
		edges = mergeContiguous(edges)
		edges = linkArraySublings(edges)
		g.reverse[k] = edges
	}
}

// mergeContiguous merges edges that share destination term/ptr/path/clock/
// assigntype and whose bit ranges are contiguous into one maximal range
// ("mergable", spec §4.H Phase 2 step 2).
func mergeContiguous(edges []Edge) []Edge {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(edges); i++ {
			for j := i + 1; j < len(edges); j++ {
				a, b := edges[i], edges[j]
				if a.Dst.Term != b.Dst.Term || a.Dst.Ptr != b.Dst.Ptr || a.Assign != b.Assign ||
					a.Clock != b.Clock || !dataflow.Equal(a.Path, b.Path) {
					continue
				}
				if contiguous(a.Dst.Range, b.Dst.Range) {
					merged := a
					merged.Dst = &term.Slice{
						Term:  a.Dst.Term,
						Ptr:   a.Dst.Ptr,
						Range: term.NewRange(maxInt(a.Dst.Range.Msb, b.Dst.Range.Msb), minInt(a.Dst.Range.Lsb, b.Dst.Range.Lsb)),
					}
					edges[i] = merged
					edges = append(edges[:j], edges[j+1:]...)
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
	return edges
}

func contiguous(a, b term.Range) bool {
	return a.Lsb == b.Msb+1 || b.Lsb == a.Msb+1 || rangesOverlap(a, b)
}

func rangesOverlap(a, b term.Range) bool {
	return a.Lsb <= b.Msb && b.Lsb <= a.Msb
}

// linkArraySublings chains edges that write identical bit ranges but
// differing (constant) array indices into a wr_subling list
// ("mergable_array", spec §4.H Phase 2 step 2).
func linkArraySublings(edges []Edge) []Edge {
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			a, b := edges[i].Dst, edges[j].Dst
			if a.Term == b.Term && a.Range == b.Range && a.Ptr != b.Ptr {
				tail := a
				for tail.WrSubling != nil {
					tail = tail.WrSubling
				}
				tail.WrSubling = b
			}
		}
	}
	return edges
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
