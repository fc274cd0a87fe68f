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

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/term"
)

// FanOut implements spec.md §4.H Phase 6: a chain slice whose array index is
// non-constant gets dim companion signals, one per concrete index, each
// combinational definition AND-gated by "index == k"; a non-constant
// read-index fans the valid lookup across every entry via rd_ptr/rd_subling
// (OR-combination).
//
// Synthesize already emits one (combinational or registered) signal bank per
// slice identity; FanOut is called with that bank's av wire and, when n.Ptr
// is non-constant, returns dim extra wires <name>__ENTRYk__ (one per concrete
// array entry, each the av wire AND-gated by "index == k"). The av
// assignment itself is kept unchanged, and FanValid does not read these
// per-entry wires: it ORs the valid wires along the RdSubling chain.
func FanOut(n *term.Slice, val ast.Expr, esc func(*term.Slice) (string, error)) ([]*ast.Declaration, []*ast.ContinuousAssign, error) {
	if !n.Ptr.Present || n.Ptr.Const {
		return nil, nil, nil
	}
	dim := n.Term.Dim
	if dim == 0 {
		return nil, nil, nil
	}
	name, err := esc(n)
	if err != nil {
		return nil, nil, err
	}
	idxExpr := &ast.Identifier{Name: n.Ptr.ExprText}
	var decls []*ast.Declaration
	var out []*ast.ContinuousAssign
	for k := uint(0); k < dim; k++ {
		guard := &ast.Compare{Op: ast.Eq, Left: idxExpr, Right: &ast.IntConst{Text: fmt.Sprintf("%d", k), Width: 32, Value: int64(k)}}
		wireName := fmt.Sprintf("%s__ENTRY%d__", name, k)
		decls = append(decls, &ast.Declaration{Name: wireName, Kind: ast.Wire, Width: 1})
		out = append(out, &ast.ContinuousAssign{
			LHS: &ast.Identifier{Name: wireName},
			RHS: bexp.Simplify(bexp.And(val, guard)),
		})
	}
	return decls, out, nil
}

// FanValid implements the read-index half of Phase 6: when a slice's rd_ptr
// (or rd_subling chain) differs from its own write index, the valid lookup
// is OR-combined across every sibling entry rather than reading a single
// signal (spec §4.H Phase 6: "fan the valid-lookup across all entries").
func FanValid(n *term.Slice, validOf func(*term.Slice) ast.Expr) ast.Expr {
	if n.RdSubling == nil && n.RdPtr == "" {
		return validOf(n)
	}
	acc := validOf(n)
	for sib := n.RdSubling; sib != nil; sib = sib.RdSubling {
		acc = bexp.Or(acc, validOf(sib))
	}
	return acc
}
