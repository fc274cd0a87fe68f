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
	"fmt"

	"github.com/efeslab/veripass/internal/dataflow"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/term"
	"github.com/efeslab/veripass/internal/width"
	log "github.com/sirupsen/logrus"
)

// Edge is one (src,dst) relationship in the slice-granularity reverse/forward
// maps built by Phase 2 (spec §3, "Reverse map / forward map").
type Edge struct {
	Src    *term.Slice
	Dst    *term.Slice
	Path   term.Path
	Assign term.AssignType
	Clock  term.Clock
}

// coarseEntry is one term-granularity reverse-map entry discovered by Phase 1
// (spec §4.H Phase 1: "a reverse-map entry ... is recorded").
type coarseEntry struct {
	dstTerm  *term.Term
	dstRange term.Range
	dstPtr   term.Index
	srcTerm  *term.Term
	srcRange term.Range
	srcPtr   term.Index
	assign   term.AssignType
	clock    term.Clock
	path     term.Path
}

func (e coarseEntry) key() [9]any {
	return [9]any{e.dstTerm, e.dstRange, e.dstPtr, e.srcTerm, e.srcRange, e.srcPtr, e.assign, e.clock, len(e.path)}
}

// Engine runs the FlowGuard core over a single term table.
type Engine struct {
	Table   *term.Table
	Widths  *width.Visitor
	Precise *dataflow.Visitor
	Models  *memmodel.Registry

	coarse map[string][]coarseEntry // keyed by dst term name
}

// NewEngine constructs a FlowGuard engine over an already-imported design.
func NewEngine(table *term.Table, models *memmodel.Registry) *Engine {
	w := width.New(table)
	return &Engine{
		Table:   table,
		Widths:  w,
		Precise: dataflow.NewVisitor(w),
		Models:  models,
		coarse:  make(map[string][]coarseEntry),
	}
}

// phase1 performs the sink-rooted reverse reachability search at term
// granularity (spec §4.H Phase 1).
func (e *Engine) phase1(sink *term.Term) {
	queue := []*term.Term{sink}
	visited := map[string]bool{sink.Name: true}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		for _, b := range e.Table.Bindings(t.Name) {
			src := b.SourceExpr()
			if src == nil {
				continue
			}
			for _, ref := range collectTerminals(src) {
				srcTerm, ok := e.Table.Lookup(ref.Name)
				if !ok {
					continue // MissingBinding-adjacent: unresolved reference, recovered (spec §7)
				}
				entry := coarseEntry{
					dstTerm: t, dstRange: b.Range, dstPtr: b.Ptr,
					srcTerm: srcTerm, srcRange: ref.Range, srcPtr: ref.Ptr,
					assign: b.Assign, clock: b.Clock, path: b.Path,
				}
				if !containsCoarse(e.coarse[t.Name], entry) {
					e.coarse[t.Name] = append(e.coarse[t.Name], entry)
				}
				if !visited[srcTerm.Name] {
					visited[srcTerm.Name] = true
					queue = append(queue, srcTerm)
				}
			}
		}
	}
	log.WithField("terms", len(visited)).Debug("flowguard: phase1 reverse closure complete")
}

func containsCoarse(entries []coarseEntry, e coarseEntry) bool {
	for _, o := range entries {
		if o.key() == e.key() {
			return true
		}
	}
	return false
}

// Error kinds returned by Run; ConfigError is non-fatal (spec §7: "the tool
// still emits unchanged output with a warning").
var (
	ErrSinkUnreachable = fmt.Errorf("ConfigError: sink not reachable from source")
)
