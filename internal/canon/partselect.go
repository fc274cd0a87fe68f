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
package canon

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/pass"
	"github.com/efeslab/veripass/internal/term"
)

// PartSelectPromote is spec.md §4.D's part-select-promotion pass: a
// part-select of a plain identifier that is read at more than one site is
// hoisted into its own named wire, so FlowGuard's precise dependency visitor
// (internal/dataflow) only ever has to resolve a given bit-range once per
// term rather than re-deriving it at every read site.
type PartSelectPromote struct{}

// Name implements pass.Pass.
func (PartSelectPromote) Name() string { return "part-select-promote" }

// Run implements pass.Pass.
func (PartSelectPromote) Run(ctx *pass.Context, m *ast.Module) error {
	counts := make(map[string]int)
	var order []string
	walkModule(m, func(e ast.Expr) {
		ps, ok := e.(*ast.PartSelect)
		if !ok {
			return
		}
		if _, ok := ps.Arg.(*ast.Identifier); !ok {
			return
		}
		key := partSelectKey(ps)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	})

	promoted := make(map[string]string) // key -> wire name
	for _, key := range order {
		if counts[key] >= 2 {
			var id string
			var msb, lsb int
			fmt.Sscanf(key, "%s %d %d", &id, &msb, &lsb)
			promoted[key] = fmt.Sprintf("%s__BRA__%d__03A__%d__KET__", id, msb, lsb)
		}
	}
	if len(promoted) == 0 {
		return nil
	}

	// Rewrite every read site before adding the promoted wires' own driving
	// assigns, so the new `assign wire = id[msb:lsb];` statements are not
	// themselves rewritten into self-references.
	mapModule(m, func(e ast.Expr) ast.Expr {
		ps, ok := e.(*ast.PartSelect)
		if !ok {
			return e
		}
		if _, ok := ps.Arg.(*ast.Identifier); !ok {
			return e
		}
		if wireName, ok := promoted[partSelectKey(ps)]; ok {
			return &ast.Identifier{Name: wireName}
		}
		return e
	})

	for key, wireName := range promoted {
		var id string
		var msb, lsb int
		fmt.Sscanf(key, "%s %d %d", &id, &msb, &lsb)
		src := &ast.PartSelect{Arg: &ast.Identifier{Name: id}, Msb: msb, Lsb: lsb}
		ctx.Declare(&term.Term{Name: wireName, Width: uint(msb - lsb + 1), Kind: ast.Wire})
		m.AddAssign(&ast.ContinuousAssign{LHS: &ast.Identifier{Name: wireName}, RHS: src})
	}
	return nil
}

func partSelectKey(ps *ast.PartSelect) string {
	id := ps.Arg.(*ast.Identifier)
	return fmt.Sprintf("%s %d %d", id.Name, ps.Msb, ps.Lsb)
}
