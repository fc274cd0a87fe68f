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
package bexp

import (
	"testing"

	"github.com/efeslab/veripass/internal/ast"
)

func a(name string) ast.Expr { return &ast.Identifier{Name: name} }

func Test_Bexp_01_NotCollapses(t *testing.T) {
	if got := Not(True); got != False {
		t.Fatalf("Not(True) = %v, want False", got)
	}
	if got := Not(False); got != True {
		t.Fatalf("Not(False) = %v, want True", got)
	}
	x := a("x")
	if got := Not(Not(x)); got != x {
		t.Fatalf("Not(Not(x)) = %v, want x", got)
	}
}

func Test_Bexp_02_AndIdentityAnnihilator(t *testing.T) {
	x := a("x")
	if got := And(True, x); got != x {
		t.Fatalf("And(True, x) = %v, want x", got)
	}
	if got := And(x, True); got != x {
		t.Fatalf("And(x, True) = %v, want x", got)
	}
	if got := And(False, x); got != False {
		t.Fatalf("And(False, x) = %v, want False", got)
	}
	if got := And(x, False); got != False {
		t.Fatalf("And(x, False) = %v, want False", got)
	}
}

func Test_Bexp_03_AndIdempotentComplement(t *testing.T) {
	x := a("x")
	if got := And(x, x); !Equal(got, x) {
		t.Fatalf("And(x, x) = %v, want x", got)
	}
	if got := And(x, Not(x)); got != False {
		t.Fatalf("And(x, !x) = %v, want False", got)
	}
}

func Test_Bexp_04_OrIdentityAnnihilator(t *testing.T) {
	x := a("x")
	if got := Or(False, x); got != x {
		t.Fatalf("Or(False, x) = %v, want x", got)
	}
	if got := Or(x, False); got != x {
		t.Fatalf("Or(x, False) = %v, want x", got)
	}
	if got := Or(True, x); got != True {
		t.Fatalf("Or(True, x) = %v, want True", got)
	}
	if got := Or(x, True); got != True {
		t.Fatalf("Or(x, True) = %v, want True", got)
	}
}

func Test_Bexp_05_OrIdempotentComplement(t *testing.T) {
	x := a("x")
	if got := Or(x, x); !Equal(got, x) {
		t.Fatalf("Or(x, x) = %v, want x", got)
	}
	if got := Or(x, Not(x)); got != True {
		t.Fatalf("Or(x, !x) = %v, want True", got)
	}
}

func Test_Bexp_06_Absorption(t *testing.T) {
	x, y := a("x"), a("y")
	orExpr := Or(x, y) // x || y
	if got := And(x, orExpr); !Equal(got, x) {
		t.Fatalf("And(x, x||y) = %v, want x", got)
	}
	andExpr := And(x, y) // x && y
	if got := Or(x, andExpr); !Equal(got, x) {
		t.Fatalf("Or(x, x&&y) = %v, want x", got)
	}
}

func Test_Bexp_07_AndAllOrAll(t *testing.T) {
	if got := AndAll(); got != True {
		t.Fatalf("AndAll() = %v, want True", got)
	}
	if got := OrAll(); got != False {
		t.Fatalf("OrAll() = %v, want False", got)
	}
	x, y := a("x"), a("y")
	if got := AndAll(x, y); !Equal(got, And(x, y)) {
		t.Fatalf("AndAll(x, y) = %v, want And(x, y)", got)
	}
	if got := OrAll(x, y); !Equal(got, Or(x, y)) {
		t.Fatalf("OrAll(x, y) = %v, want Or(x, y)", got)
	}
}

func Test_Bexp_08_SimplifyNested(t *testing.T) {
	x := a("x")
	nested := &ast.Logical{Op: ast.LAnd, Left: True, Right: &ast.Logical{Op: ast.LOr, Left: False, Right: x}}
	if got := Simplify(nested); !Equal(got, x) {
		t.Fatalf("Simplify(True && (False || x)) = %v, want x", got)
	}
}

func Test_Bexp_09_Equal(t *testing.T) {
	if !Equal(a("x"), a("x")) {
		t.Fatalf("Equal(x, x) should be true")
	}
	if Equal(a("x"), a("y")) {
		t.Fatalf("Equal(x, y) should be false")
	}
	l := &ast.Binary{Op: ast.Plus, Left: a("x"), Right: a("y")}
	r := &ast.Binary{Op: ast.Plus, Left: a("x"), Right: a("y")}
	if !Equal(l, r) {
		t.Fatalf("Equal on structurally identical Binary nodes should be true")
	}
	r2 := &ast.Binary{Op: ast.Minus, Left: a("x"), Right: a("y")}
	if Equal(l, r2) {
		t.Fatalf("Equal on Binary nodes with different ops should be false")
	}
}

func Test_Bexp_10_IsTrueIsFalse(t *testing.T) {
	if !IsTrue(True) || IsFalse(True) {
		t.Fatalf("IsTrue/IsFalse disagree on True")
	}
	if !IsFalse(False) || IsTrue(False) {
		t.Fatalf("IsTrue/IsFalse disagree on False")
	}
	if IsTrue(a("x")) || IsFalse(a("x")) {
		t.Fatalf("a plain identifier should be neither True nor False")
	}
}
