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

func Test_Table_01_DeclareLookup(t *testing.T) {
	tbl := NewTable()
	tm := &Term{Name: "a", Width: 8, Kind: Kind(0)}
	tbl.Declare(tm)

	got, ok := tbl.Lookup("a")
	if !ok || got != tm {
		t.Fatalf("Lookup(a) = (%v, %v), want (%v, true)", got, ok, tm)
	}
	if _, ok := tbl.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) should return ok=false")
	}
}

func Test_Table_02_DeclarePanicsOnDuplicate(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(&Term{Name: "a", Width: 1})
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("Declare should panic on a duplicate name")
		}
	}()
	tbl.Declare(&Term{Name: "a", Width: 1})
}

func Test_Table_03_MustLookupPanics(t *testing.T) {
	tbl := NewTable()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLookup should panic on an unresolved name")
		}
	}()
	tbl.MustLookup("nope")
}

func Test_Table_04_BindingsOrder(t *testing.T) {
	tbl := NewTable()
	dest := &Term{Name: "q", Width: 1}
	tbl.Declare(dest)
	b1 := &Binding{Dest: dest, Assign: Blocking}
	b2 := &Binding{Dest: dest, Assign: Nonblocking}
	tbl.AddBinding(b1)
	tbl.AddBinding(b2)

	got := tbl.Bindings("q")
	if len(got) != 2 || got[0] != b1 || got[1] != b2 {
		t.Fatalf("Bindings(q) = %v, want [b1 b2] in insertion order", got)
	}
}

func Test_Table_05_TermsDeclarationOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Declare(&Term{Name: "b"})
	tbl.Declare(&Term{Name: "a"})
	got := tbl.Terms()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Fatalf("Terms() = %v, want declaration order [b a]", got)
	}
}

func Test_Table_06_ClassifyBitsAndMask(t *testing.T) {
	tbl := NewTable()
	if err := tbl.ClassifyBits("q", 4, 3, 0, true); err != nil {
		t.Fatalf("ClassifyBits returned an unexpected error: %v", err)
	}
	mask := tbl.Mask("q")
	if mask == nil {
		t.Fatalf("Mask(q) = nil, want an allocated mask")
	}
	for i := uint(0); i < 4; i++ {
		if !mask.IsDFF(i) {
			t.Fatalf("bit %d should be classified DFF after ClassifyBits(isDFF=true)", i)
		}
	}
}

func Test_Table_07_ClassifyBitsConflict(t *testing.T) {
	tbl := NewTable()
	if err := tbl.ClassifyBits("q", 4, 3, 0, true); err != nil {
		t.Fatalf("first ClassifyBits returned an unexpected error: %v", err)
	}
	if err := tbl.ClassifyBits("q", 4, 3, 0, false); err == nil {
		t.Fatalf("conflicting ClassifyBits calls should return an InconsistentClassification error")
	}
}

func Test_Table_08_MaskUnobservedIsNil(t *testing.T) {
	tbl := NewTable()
	if mask := tbl.Mask("never-seen"); mask != nil {
		t.Fatalf("Mask(never-seen) = %v, want nil", mask)
	}
}
