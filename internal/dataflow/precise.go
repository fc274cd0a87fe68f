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
package dataflow

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
	"github.com/efeslab/veripass/internal/width"
)

// Dep is the result of the precise visitor (spec §4.G): the bit-range of the
// visited expression that equals the target slice, the path condition under
// which that holds, and (when a non-constant array index was encountered) the
// rd_ptr hint.
type Dep struct {
	Msb, Lsb int
	Path     term.Path
	RdPtr    string
}

// Width returns the number of bits covered by this dependency.
func (d *Dep) Width() uint {
	return uint(d.Msb-d.Lsb) + 1
}

// Visitor computes bit-slice dependencies against a fixed width visitor
// (needed to size full-term/full-expression dependencies).
type Visitor struct {
	Widths *width.Visitor
}

// NewVisitor constructs a precise dependency visitor.
func NewVisitor(w *width.Visitor) *Visitor {
	return &Visitor{Widths: w}
}

// Visit computes which bits of e equal the target slice T, along the given
// path prefix, or returns ok=false if no dependency exists in this subtree
// (spec §4.G).
func (v *Visitor) Visit(target *term.Slice, e ast.Expr, path term.Path) (*Dep, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return v.visitTerminal(target, n, path)
	case *ast.IntConst:
		return nil, false
	case *ast.PartSelect:
		return v.visitPartSelect(target, n, path)
	case *ast.Pointer:
		return v.visitPointer(target, n, path)
	case *ast.Conditional:
		return v.visitBranch(target, n, path)
	case *ast.Concat:
		return v.visitConcat(target, n, path)
	case *ast.Unary:
		return v.visitUnary(target, n, path)
	case *ast.Binary:
		return v.visitBinary(target, n, path)
	case *ast.Compare:
		return v.visitCompare(target, n, path)
	case *ast.Shift:
		return v.visitShift(target, n, path)
	default:
		panic(fmt.Sprintf("UnsupportedSyntax: precise visitor: %T", e))
	}
}

func (v *Visitor) visitTerminal(target *term.Slice, id *ast.Identifier, path term.Path) (*Dep, bool) {
	if id.Name != target.Term.Name {
		return nil, false
	}
	msb, lsb := 0, 0
	if target.Range.Present {
		msb, lsb = target.Range.Msb, target.Range.Lsb
	} else {
		msb, lsb = int(target.Term.Width)-1, 0
	}
	return &Dep{Msb: msb, Lsb: lsb, Path: path}, true
}

func (v *Visitor) visitPartSelect(target *term.Slice, n *ast.PartSelect, path term.Path) (*Dep, bool) {
	child, ok := v.Visit(target, n.Arg, path)
	if !ok {
		return nil, false
	}
	// Four-case interval intersection between the enclosing select [M:L] and
	// the child-reported [cm:cl] (spec §4.G).
	m, l := n.Msb, n.Lsb
	lo := max(l, child.Lsb)
	hi := min(m, child.Msb)
	if lo > hi {
		return nil, false
	}
	return &Dep{Msb: hi - l, Lsb: lo - l, Path: child.Path}, true
}

func (v *Visitor) visitPointer(target *term.Slice, n *ast.Pointer, path term.Path) (*Dep, bool) {
	id, ok := n.Arg.(*ast.Identifier)
	if !ok || id.Name != target.Term.Name {
		return nil, false
	}
	idxConst, idxIsConst := constIntValue(n.Index)
	switch {
	case target.Ptr.Const && idxIsConst:
		if int(idxConst) != target.Ptr.Value {
			return nil, false
		}
		return v.visitTerminal(target, id, path)
	case !target.Ptr.Const && !idxIsConst:
		dep, ok := v.visitTerminal(target, id, path)
		if !ok {
			return nil, false
		}
		dep.RdPtr = n.Index.Lisp()
		return dep, true
	default:
		return nil, false
	}
}

func (v *Visitor) visitBranch(target *term.Slice, n *ast.Conditional, path term.Path) (*Dep, bool) {
	thenPath := Append(path, n.Cond, true)
	elsePath := Append(path, n.Cond, false)
	thenPath, thenOK := Normalize(thenPath)
	elsePath, elseOK := Normalize(elsePath)
	var thenDep, elseDep *Dep
	var thenHas, elseHas bool
	if thenOK {
		thenDep, thenHas = v.Visit(target, n.Then, thenPath)
	}
	if elseOK {
		elseDep, elseHas = v.Visit(target, n.Else, elsePath)
	}
	switch {
	case thenHas && elseHas && thenDep.Msb == elseDep.Msb && thenDep.Lsb == elseDep.Lsb:
		// Both sides agree: the branch condition is irrelevant to whether the
		// dependency holds, so drop it from both path lists (spec §4.G).
		return &Dep{Msb: thenDep.Msb, Lsb: thenDep.Lsb, Path: path}, true
	case thenHas:
		return thenDep, true
	case elseHas:
		return elseDep, true
	default:
		return nil, false
	}
}

func (v *Visitor) visitConcat(target *term.Slice, n *ast.Concat, path term.Path) (*Dep, bool) {
	// Walk children right-to-left accumulating width (spec §4.G).
	offset := uint(0)
	var best *Dep
	for i := len(n.Args) - 1; i >= 0; i-- {
		child := n.Args[i]
		cw := v.Widths.Of(child)
		if dep, ok := v.Visit(target, child, path); ok {
			rebased := &Dep{Msb: dep.Msb + int(offset), Lsb: dep.Lsb + int(offset), Path: dep.Path}
			if best != nil && !Equal(best.Path, rebased.Path) {
				panic("precise visitor: concat dependents disagree on path condition")
			}
			if best == nil {
				best = rebased
			} else {
				best = &Dep{
					Msb:  max(best.Msb, rebased.Msb),
					Lsb:  min(best.Lsb, rebased.Lsb),
					Path: best.Path,
				}
			}
		}
		offset += cw
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func (v *Visitor) visitUnary(target *term.Slice, n *ast.Unary, path term.Path) (*Dep, bool) {
	if n.Op != ast.UNot {
		return nil, false
	}
	// Unot is transparent: same bit position as its operand (spec §4.G).
	return v.Visit(target, n.Arg, path)
}

func (v *Visitor) visitBinary(target *term.Slice, n *ast.Binary, path term.Path) (*Dep, bool) {
	switch n.Op {
	case ast.And, ast.Or, ast.Xor, ast.Plus, ast.Minus:
		ldep, lok := v.Visit(target, n.Left, path)
		rdep, rok := v.Visit(target, n.Right, path)
		if !lok && !rok {
			return nil, false
		}
		p := path
		if lok {
			p = ldep.Path
		} else {
			p = rdep.Path
		}
		w := v.Widths.Of(n)
		return &Dep{Msb: int(w) - 1, Lsb: 0, Path: p}, true
	default:
		panic(fmt.Sprintf("UnsupportedSyntax: precise visitor operator: %v", n.Op))
	}
}

func (v *Visitor) visitCompare(target *term.Slice, n *ast.Compare, path term.Path) (*Dep, bool) {
	ldep, lok := v.Visit(target, n.Left, path)
	rdep, rok := v.Visit(target, n.Right, path)
	if !lok && !rok {
		return nil, false
	}
	p := path
	if lok {
		p = ldep.Path
	} else {
		p = rdep.Path
	}
	return &Dep{Msb: 0, Lsb: 0, Path: p}, true
}

func (v *Visitor) visitShift(target *term.Slice, n *ast.Shift, path term.Path) (*Dep, bool) {
	if n.Op != ast.Srl {
		panic("UnsupportedSyntax: precise visitor: only Srl shifts produce partial slices")
	}
	k, ok := n.ConstAmount()
	if !ok {
		panic("UnsupportedSyntax: precise visitor: shift amount must be constant")
	}
	dep, has := v.Visit(target, n.Arg, path)
	if !has {
		return nil, false
	}
	msb := dep.Msb - int(k)
	lsb := dep.Lsb - int(k)
	if msb < 0 {
		return nil, false
	}
	if lsb < 0 {
		lsb = 0
	}
	return &Dep{Msb: msb, Lsb: lsb, Path: dep.Path}, true
}

func constIntValue(e ast.Expr) (int64, bool) {
	if c, ok := e.(*ast.IntConst); ok {
		return c.Value, true
	}
	return 0, false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
