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
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/term"
)

// AssignCondition implements the positive form of the Phase 4
// unassigned-condition visitor (spec §4.H): the condition under which a
// single binding of target's term actually drives target's bit range this
// cycle, i.e. ¬U_b(target). ok is false when this binding is not counted for
// target (a bit range that does not fully contain target's, including a
// partial overlap, or a definitely-mismatched constant array index), in which
// case it contributes nothing to n.assign.
//
// The importer has already collapsed each procedural if/else arm, and each
// concat-lvalue sub-range, into its own Binding with an explicit Path and
// Range (see internal/importer); that is this visitor's "branch contributes
// its path condition" / "concat distributes the range" / "part-select
// narrows the range" from spec §4.H folded into the Binding's own fields, so
// what remains here is just range/index overlap plus reading off the path.
func AssignCondition(target *term.Slice, b *term.Binding) (ast.Expr, bool) {
	if !ptrCompatible(target.Ptr, b.Ptr) {
		return nil, false
	}
	if !rangeCovers(b.Range, target.Range, target.Term.Width) {
		return nil, false
	}
	return Expr(b.Path), true
}

// ptrCompatible reports whether a binding's write index and a slice's
// identity index could refer to the same array entry.
func ptrCompatible(target, write term.Index) bool {
	switch {
	case !target.Present && !write.Present:
		return true
	case target.Present && write.Present:
		if target.Const && write.Const {
			return target.Value == write.Value
		}
		return true
	default:
		return false
	}
}

// rangeCovers reports whether the binding's destination range fully contains
// the target slice's range (spec §4.H: a part-select narrows which bits of a
// binding apply; a binding that only partially overlaps is treated here as
// not covering, conservatively excluding it rather than risking a false
// "assigned" report — see DESIGN.md).
func rangeCovers(write, target term.Range, whole uint) bool {
	wm, wl := int(whole)-1, 0
	if write.Present {
		wm, wl = write.Msb, write.Lsb
	}
	tm, tl := int(whole)-1, 0
	if target.Present {
		tm, tl = target.Msb, target.Lsb
	}
	return wl <= tl && tm <= wm
}

// Assign computes n.assign: the OR, across every binding of target's term,
// of AssignCondition (spec §4.H Phase 5 table).
func Assign(target *term.Slice, bindings []*term.Binding) ast.Expr {
	acc := bexp.False
	for _, b := range bindings {
		if cond, ok := AssignCondition(target, b); ok {
			acc = bexp.Or(acc, cond)
		}
	}
	return acc
}
