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
	"testing"

	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/term"
)

func Test_Unassigned_01_AssignConditionWholeTerm(t *testing.T) {
	dest := &term.Term{Name: "q", Width: 4}
	target := term.NewSlice(dest)
	b := &term.Binding{Dest: dest, Path: term.Path{{Cond: id("en"), Polarity: true}}}

	cond, ok := AssignCondition(target, b)
	if !ok {
		t.Fatalf("AssignCondition should hold for a whole-term binding against a whole-term target")
	}
	if !bexp.Equal(cond, id("en")) {
		t.Fatalf("AssignCondition = %v, want the binding's path condition", cond)
	}
}

func Test_Unassigned_02_RangeNotCovering(t *testing.T) {
	dest := &term.Term{Name: "q", Width: 8}
	target := term.NewRangeSlice(dest, term.NewRange(7, 4))
	b := &term.Binding{Dest: dest, Range: term.NewRange(3, 0)}

	if _, ok := AssignCondition(target, b); ok {
		t.Fatalf("AssignCondition should reject a binding that writes a disjoint bit range")
	}
}

func Test_Unassigned_03_RangeCoveringSuperset(t *testing.T) {
	dest := &term.Term{Name: "q", Width: 8}
	target := term.NewRangeSlice(dest, term.NewRange(3, 0))
	b := &term.Binding{Dest: dest, Range: term.NewRange(7, 0)}

	if _, ok := AssignCondition(target, b); !ok {
		t.Fatalf("AssignCondition should accept a binding whose range is a superset of the target's")
	}
}

func Test_Unassigned_04_PtrMismatch(t *testing.T) {
	dest := &term.Term{Name: "mem", Width: 8, Dim: 4}
	target := &term.Slice{Term: dest, Ptr: term.ConstIndex(1)}
	b := &term.Binding{Dest: dest, Ptr: term.ConstIndex(2)}

	if _, ok := AssignCondition(target, b); ok {
		t.Fatalf("AssignCondition should reject a binding to a different constant array entry")
	}
}

func Test_Unassigned_05_PtrVariableCompatible(t *testing.T) {
	dest := &term.Term{Name: "mem", Width: 8, Dim: 4}
	target := &term.Slice{Term: dest, Ptr: term.VarIndex("i")}
	b := &term.Binding{Dest: dest, Ptr: term.VarIndex("j")}

	if _, ok := AssignCondition(target, b); !ok {
		t.Fatalf("a variable-indexed write should be treated as potentially aliasing a variable-indexed target")
	}
}

func Test_Unassigned_06_AssignOrsAcrossBindings(t *testing.T) {
	dest := &term.Term{Name: "q", Width: 1}
	target := term.NewSlice(dest)
	b1 := &term.Binding{Dest: dest, Path: term.Path{{Cond: id("a"), Polarity: true}}}
	b2 := &term.Binding{Dest: dest, Path: term.Path{{Cond: id("b"), Polarity: true}}}

	got := Assign(target, []*term.Binding{b1, b2})
	want := bexp.Or(id("a"), id("b"))
	if !bexp.Equal(got, want) {
		t.Fatalf("Assign() = %v, want %v", got, want)
	}
}
