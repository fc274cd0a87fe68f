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
package term

import "testing"

func Test_Term_01_IsArray(t *testing.T) {
	scalar := &Term{Name: "a", Width: 1}
	if scalar.IsArray() {
		t.Fatalf("a Dim=0 term should not report IsArray()")
	}
	array := &Term{Name: "mem", Width: 8, Dim: 4}
	if !array.IsArray() {
		t.Fatalf("a Dim>0 term should report IsArray()")
	}
}

func Test_AssignType_01_IsModel(t *testing.T) {
	if Blocking.IsModel() || Nonblocking.IsModel() {
		t.Fatalf("the two procedural assign types should not be classified as models")
	}
	if !AssignType("fifo").IsModel() {
		t.Fatalf("a non-procedural assign type should be classified as a model")
	}
}

func Test_Binding_01_IsRegister(t *testing.T) {
	dest := &Term{Name: "q", Width: 1}
	reg := &Binding{Dest: dest, Assign: Nonblocking}
	if !reg.IsRegister() {
		t.Fatalf("a nonblocking binding should report IsRegister()=true")
	}
	comb := &Binding{Dest: dest, Assign: Blocking}
	if comb.IsRegister() {
		t.Fatalf("a blocking binding should report IsRegister()=false")
	}
}

func Test_Binding_02_SourceExpr(t *testing.T) {
	empty := &Binding{}
	if empty.SourceExpr() != nil {
		t.Fatalf("SourceExpr() on a binding with no Source should return nil")
	}
}

func Test_Range_01_Width(t *testing.T) {
	if got, want := WholeTerm.Width(16), uint(16); got != want {
		t.Fatalf("WholeTerm.Width(16) = %d, want %d", got, want)
	}
	r := NewRange(7, 4)
	if got, want := r.Width(16), uint(4); got != want {
		t.Fatalf("NewRange(7,4).Width(16) = %d, want %d", got, want)
	}
}

func Test_Index_01_Constructors(t *testing.T) {
	c := ConstIndex(3)
	if !c.Present || !c.Const || c.Value != 3 {
		t.Fatalf("ConstIndex(3) = %+v, want Present=true Const=true Value=3", c)
	}
	v := VarIndex("i")
	if !v.Present || v.Const || v.ExprText != "i" {
		t.Fatalf("VarIndex(i) = %+v, want Present=true Const=false ExprText=i", v)
	}
}
