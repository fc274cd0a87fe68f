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
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/pass"
)

// RegPromote is spec.md §4.D's "logic"-canonicalization pass: this tool's
// grammar has no separate "logic" declaration kind (SystemVerilog's logic is
// ambiguously a wire or a register depending how it is driven), so the
// importer always declares one as ast.Wire. Any such declaration that is the
// left-hand side of a nonblocking assignment inside a clocked always-block is
// in fact a register, and is promoted to ast.Reg here, before FlowGuard's own
// analysis runs (which assumes Kind already reflects this).
type RegPromote struct{}

// Name implements pass.Pass.
func (RegPromote) Name() string { return "reg-promote" }

// Run implements pass.Pass.
func (RegPromote) Run(ctx *pass.Context, m *ast.Module) error {
	registered := make(map[string]bool)
	for _, a := range m.Always() {
		_, _, clocked := a.Clock()
		if !clocked {
			continue
		}
		collectNonblockingTargets(a.Body, registered)
	}
	if len(registered) == 0 {
		return nil
	}

	for _, d := range m.Declarations() {
		if d.Kind == ast.Wire && registered[d.Name] {
			d.Kind = ast.Reg
		}
	}
	return nil
}

func collectNonblockingTargets(s ast.Stmt, out map[string]bool) {
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			collectNonblockingTargets(st, out)
		}
	case *ast.IfStatement:
		collectNonblockingTargets(n.Then, out)
		if n.Else != nil {
			collectNonblockingTargets(n.Else, out)
		}
	case *ast.Substitution:
		if n.Blocking {
			return
		}
		if name, ok := lvalueName(n.LHS); ok {
			out[name] = true
		}
	}
}

func lvalueName(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name, true
	case *ast.PartSelect:
		return lvalueName(n.Arg)
	case *ast.Pointer:
		return lvalueName(n.Arg)
	default:
		return "", false
	}
}
