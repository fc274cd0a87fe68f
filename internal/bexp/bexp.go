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

// Package bexp implements the 1-bit Boolean simplifier referenced throughout
// spec.md §4.H/§4.J: identity, annihilator, absorption and double-negation
// laws over the Logical/Unary(LNot) fragment of internal/ast, grounded on
// the equational simplification style of go-corset's pkg/util/logical
// (propositional equivalences applied bottom-up to a fixed point).
package bexp

import "github.com/efeslab/veripass/internal/ast"

// True and False are the canonical 1-bit Boolean constants this package
// produces and recognises.
var (
	True  ast.Expr = &ast.IntConst{Text: "1'b1", Width: 1, Value: 1}
	False ast.Expr = &ast.IntConst{Text: "1'b0", Width: 1, Value: 0}
)

// IsTrue reports whether e is the canonical True constant.
func IsTrue(e ast.Expr) bool {
	c, ok := e.(*ast.IntConst)
	return ok && c.Width == 1 && c.Value == 1
}

// IsFalse reports whether e is the canonical False constant.
func IsFalse(e ast.Expr) bool {
	c, ok := e.(*ast.IntConst)
	return ok && c.Width == 1 && c.Value == 0
}

// Not builds the logical negation of e, collapsing double-negation and
// constants immediately.
func Not(e ast.Expr) ast.Expr {
	switch {
	case IsTrue(e):
		return False
	case IsFalse(e):
		return True
	}
	if u, ok := e.(*ast.Unary); ok && u.Op == ast.LNot {
		return u.Arg
	}
	return &ast.Unary{Op: ast.LNot, Arg: e}
}

// And builds the logical conjunction of l and r, applying identity,
// annihilator, idempotence and complementation laws.
func And(l, r ast.Expr) ast.Expr {
	switch {
	case IsFalse(l), IsFalse(r):
		return False
	case IsTrue(l):
		return r
	case IsTrue(r):
		return l
	case Equal(l, r):
		return l
	case Equal(l, Not(r)):
		return False
	}
	// Absorption: x && (x || y) == x
	if or, ok := r.(*ast.Logical); ok && or.Op == ast.LOr {
		if Equal(or.Left, l) || Equal(or.Right, l) {
			return l
		}
	}
	if or, ok := l.(*ast.Logical); ok && or.Op == ast.LOr {
		if Equal(or.Left, r) || Equal(or.Right, r) {
			return r
		}
	}
	return &ast.Logical{Op: ast.LAnd, Left: l, Right: r}
}

// Or builds the logical disjunction of l and r, applying identity,
// annihilator, idempotence and complementation laws.
func Or(l, r ast.Expr) ast.Expr {
	switch {
	case IsTrue(l), IsTrue(r):
		return True
	case IsFalse(l):
		return r
	case IsFalse(r):
		return l
	case Equal(l, r):
		return l
	case Equal(l, Not(r)):
		return True
	}
	// Absorption: x || (x && y) == x
	if and, ok := r.(*ast.Logical); ok && and.Op == ast.LAnd {
		if Equal(and.Left, l) || Equal(and.Right, l) {
			return l
		}
	}
	if and, ok := l.(*ast.Logical); ok && and.Op == ast.LAnd {
		if Equal(and.Left, r) || Equal(and.Right, r) {
			return r
		}
	}
	return &ast.Logical{Op: ast.LOr, Left: l, Right: r}
}

// AndAll folds And over zero or more terms; the empty conjunction is True.
func AndAll(terms ...ast.Expr) ast.Expr {
	acc := True
	for _, t := range terms {
		acc = And(acc, t)
	}
	return acc
}

// OrAll folds Or over zero or more terms; the empty disjunction is False.
func OrAll(terms ...ast.Expr) ast.Expr {
	acc := False
	for _, t := range terms {
		acc = Or(acc, t)
	}
	return acc
}

// Simplify applies the rewrite rules bottom-up to a fixed point. Leaves
// (non-Logical/Unary-LNot nodes) are returned unchanged.
func Simplify(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Logical:
		l, r := Simplify(n.Left), Simplify(n.Right)
		if n.Op == ast.LAnd {
			return And(l, r)
		}
		return Or(l, r)
	case *ast.Unary:
		if n.Op == ast.LNot {
			return Not(Simplify(n.Arg))
		}
		return n
	default:
		return e
	}
}

// Equal reports whether two expressions are structurally identical. This is
// the equality relation path-condition deduplication and the merge
// predicates rely on (spec §3, §9: "Equality between conditions is
// structural; use interned node identity to make equality O(size)").
func Equal(a, b ast.Expr) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *ast.Identifier:
		y, ok := b.(*ast.Identifier)
		return ok && x.Name == y.Name
	case *ast.IntConst:
		y, ok := b.(*ast.IntConst)
		return ok && x.Width == y.Width && x.Value == y.Value
	case *ast.PartSelect:
		y, ok := b.(*ast.PartSelect)
		return ok && x.Msb == y.Msb && x.Lsb == y.Lsb && Equal(x.Arg, y.Arg)
	case *ast.Pointer:
		y, ok := b.(*ast.Pointer)
		return ok && Equal(x.Arg, y.Arg) && Equal(x.Index, y.Index)
	case *ast.Unary:
		y, ok := b.(*ast.Unary)
		return ok && x.Op == y.Op && Equal(x.Arg, y.Arg)
	case *ast.Binary:
		y, ok := b.(*ast.Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *ast.Compare:
		y, ok := b.(*ast.Compare)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *ast.Logical:
		y, ok := b.(*ast.Logical)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *ast.Shift:
		y, ok := b.(*ast.Shift)
		return ok && x.Op == y.Op && Equal(x.Arg, y.Arg) && Equal(x.Amount, y.Amount)
	case *ast.Conditional:
		y, ok := b.(*ast.Conditional)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *ast.Concat:
		y, ok := b.(*ast.Concat)
		if !ok || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
