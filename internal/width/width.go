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

// Package width implements the width visitor of spec.md §4.D: a cached,
// total function from expression to positive bit-width, fatal
// (WidthMismatch) on operand-width contract violations.
package width

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

// MismatchError reports a WidthMismatch (spec §7): a structural invariant
// violation, always fatal.
type MismatchError struct {
	Node ast.Expr
	Msg  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("WidthMismatch: %s: %s", e.Msg, e.Node.Lisp())
}

// Visitor computes and caches expression widths against a term table.
type Visitor struct {
	table *term.Table
	cache map[ast.Expr]uint
}

// New constructs a width visitor over the given term table.
func New(table *term.Table) *Visitor {
	return &Visitor{table: table, cache: make(map[ast.Expr]uint)}
}

// Of returns the width of e, panicking with a *MismatchError on a width
// contract violation (fatal per spec §7).
func (v *Visitor) Of(e ast.Expr) uint {
	if w, ok := v.cache[e]; ok {
		return w
	}
	w := v.compute(e)
	v.cache[e] = w
	return w
}

func (v *Visitor) compute(e ast.Expr) uint {
	switch n := e.(type) {
	case *ast.Identifier:
		t := v.table.MustLookup(n.Name)
		return t.Width
	case *ast.IntConst:
		return n.Width
	case *ast.StringConst:
		return uint(len(n.Value)) * 8
	case *ast.PartSelect:
		return uint(n.Msb-n.Lsb) + 1
	case *ast.Pointer:
		id, ok := n.Arg.(*ast.Identifier)
		if !ok {
			panic(&MismatchError{e, "pointer target must be a plain identifier"})
		}
		t := v.table.MustLookup(id.Name)
		return t.Width
	case *ast.Concat:
		var total uint
		for _, a := range n.Args {
			total += v.Of(a)
		}
		return total
	case *ast.Repeat:
		return uint(n.Times) * v.Of(n.Value)
	case *ast.Unary:
		switch n.Op {
		case ast.LNot, ast.ReduceAnd, ast.ReduceOr, ast.ReduceXor:
			return 1
		default:
			return v.Of(n.Arg)
		}
	case *ast.Binary:
		l, r := v.Of(n.Left), v.Of(n.Right)
		if l != r {
			panic(&MismatchError{e, "binary operand widths differ"})
		}
		return l
	case *ast.Compare:
		return 1
	case *ast.Shift:
		return v.Of(n.Arg)
	case *ast.Logical:
		return 1
	case *ast.SystemCallExpr:
		switch n.Func {
		case ast.OneHot, ast.OneHot0:
			return 1
		case ast.FOpen:
			return 32
		default:
			panic(&MismatchError{e, "unsupported system function"})
		}
	case *ast.Conditional:
		t, f := v.Of(n.Then), v.Of(n.Else)
		if t != f {
			panic(&MismatchError{e, "conditional branches widths differ"})
		}
		return t
	default:
		panic(fmt.Sprintf("UnsupportedSyntax: width: %T", e))
	}
}
