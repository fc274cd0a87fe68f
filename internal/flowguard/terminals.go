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

// Package flowguard implements the FlowGuard instrumentation core of
// spec.md §4.H: bidirectional reachability over the data-flow graph,
// propagation-chain restriction, and synthesis of the av/ai/assign/valid/
// prop/good signals plus the loss-liveness check.
package flowguard

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

// TerminalRef is a single identifier reference discovered while scanning an
// expression tree for Phase 1's coarse, term-granularity closure.
type TerminalRef struct {
	Name  string
	Range term.Range
	Ptr   term.Index
}

// collectTerminals walks e and returns one TerminalRef per distinct
// identifier access reached, used by Phase 1 to discover which terms a
// binding's source expression could possibly depend on (spec §4.H Phase 1).
func collectTerminals(e ast.Expr) []TerminalRef {
	var out []TerminalRef
	var walk func(ast.Expr)
	walk = func(n ast.Expr) {
		switch x := n.(type) {
		case *ast.Identifier:
			out = append(out, TerminalRef{Name: x.Name})
		case *ast.IntConst, *ast.StringConst:
			// not a term reference
		case *ast.PartSelect:
			if id, ok := x.Arg.(*ast.Identifier); ok {
				out = append(out, TerminalRef{Name: id.Name, Range: term.NewRange(x.Msb, x.Lsb)})
			} else {
				walk(x.Arg)
			}
		case *ast.Pointer:
			if id, ok := x.Arg.(*ast.Identifier); ok {
				out = append(out, TerminalRef{Name: id.Name, Ptr: indexOf(x.Index)})
			} else {
				walk(x.Arg)
			}
			walk(x.Index)
		case *ast.Concat:
			for _, a := range x.Args {
				walk(a)
			}
		case *ast.Repeat:
			walk(x.Value)
		case *ast.Unary:
			walk(x.Arg)
		case *ast.Binary:
			walk(x.Left)
			walk(x.Right)
		case *ast.Compare:
			walk(x.Left)
			walk(x.Right)
		case *ast.Shift:
			walk(x.Arg)
			walk(x.Amount)
		case *ast.Logical:
			walk(x.Left)
			walk(x.Right)
		case *ast.Conditional:
			walk(x.Cond)
			walk(x.Then)
			walk(x.Else)
		case *ast.SystemCallExpr:
			for _, a := range x.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

func indexOf(e ast.Expr) term.Index {
	if c, ok := e.(*ast.IntConst); ok {
		return term.ConstIndex(int(c.Value))
	}
	return term.VarIndex(e.Lisp())
}
