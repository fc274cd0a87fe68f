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

func Test_Slice_01_KeyIdentity(t *testing.T) {
	tm := &Term{Name: "a", Width: 8}
	s1 := NewSlice(tm)
	s2 := NewSlice(tm)
	if s1.Key() != s2.Key() {
		t.Fatalf("two whole-term slices over the same term should share a key")
	}

	r1 := NewRangeSlice(tm, NewRange(3, 0))
	r2 := NewRangeSlice(tm, NewRange(3, 0))
	if r1.Key() != r2.Key() {
		t.Fatalf("two range slices with the same range should share a key")
	}
	if s1.Key() == r1.Key() {
		t.Fatalf("a whole-term slice and a ranged slice should have different keys")
	}
}

func Test_Slice_02_WeakKeyIgnoresPtr(t *testing.T) {
	tm := &Term{Name: "mem", Width: 8, Dim: 4}
	const0 := &Slice{Term: tm, Ptr: ConstIndex(0)}
	const1 := &Slice{Term: tm, Ptr: ConstIndex(1)}
	if const0.Key() == const1.Key() {
		t.Fatalf("slices with different Ptr should have different strong keys")
	}
	if const0.WeakKey() != const1.WeakKey() {
		t.Fatalf("slices differing only in Ptr should share a weak key")
	}
}

func Test_Slice_03_StringRendersIndexAndRange(t *testing.T) {
	tm := &Term{Name: "mem", Width: 8, Dim: 4}
	s := &Slice{Term: tm, Ptr: ConstIndex(2), Range: NewRange(3, 0)}
	if got, want := s.String(), "mem[2][3:0]"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func Test_Slice_04_Width(t *testing.T) {
	tm := &Term{Name: "a", Width: 8}
	whole := NewSlice(tm)
	if got, want := whole.Width(), uint(8); got != want {
		t.Fatalf("Width() of a whole-term slice = %d, want %d", got, want)
	}
	ranged := NewRangeSlice(tm, NewRange(3, 0))
	if got, want := ranged.Width(), uint(4); got != want {
		t.Fatalf("Width() of a [3:0] slice = %d, want %d", got, want)
	}
}

func Test_Slice_05_IndexString(t *testing.T) {
	if got, want := NoIndex.String(), "-"; got != want {
		t.Fatalf("NoIndex.String() = %q, want %q", got, want)
	}
	if got, want := ConstIndex(5).String(), "5"; got != want {
		t.Fatalf("ConstIndex(5).String() = %q, want %q", got, want)
	}
	if got, want := VarIndex("i+1").String(), "i+1"; got != want {
		t.Fatalf("VarIndex(i+1).String() = %q, want %q", got, want)
	}
}
