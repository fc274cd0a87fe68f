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

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

func id(name string) ast.Expr { return &ast.Identifier{Name: name} }

func Test_Path_01_Append(t *testing.T) {
	var p term.Path
	p1 := Append(p, id("c1"), true)
	p2 := Append(p1, id("c2"), false)
	if len(p) != 0 {
		t.Fatalf("Append should not mutate the original path")
	}
	if len(p2) != 2 || p2[0].Cond.(*ast.Identifier).Name != "c1" || p2[1].Polarity != false {
		t.Fatalf("Append chain = %+v, unexpected contents", p2)
	}
}

func Test_Path_02_NormalizeDedups(t *testing.T) {
	p := term.Path{
		{Cond: id("c1"), Polarity: true},
		{Cond: id("c1"), Polarity: true},
	}
	out, ok := Normalize(p)
	if !ok || len(out) != 1 {
		t.Fatalf("Normalize should dedup identical literals, got %+v ok=%v", out, ok)
	}
}

func Test_Path_03_NormalizeContradiction(t *testing.T) {
	p := term.Path{
		{Cond: id("c1"), Polarity: true},
		{Cond: id("c1"), Polarity: false},
	}
	_, ok := Normalize(p)
	if ok {
		t.Fatalf("Normalize should reject a path with both polarities of the same condition")
	}
}

func Test_Path_04_Equal(t *testing.T) {
	a := term.Path{{Cond: id("c1"), Polarity: true}, {Cond: id("c2"), Polarity: false}}
	b := term.Path{{Cond: id("c2"), Polarity: false}, {Cond: id("c1"), Polarity: true}}
	if !Equal(a, b) {
		t.Fatalf("Equal should ignore literal order")
	}
	c := term.Path{{Cond: id("c1"), Polarity: false}, {Cond: id("c2"), Polarity: false}}
	if Equal(a, c) {
		t.Fatalf("Equal should notice a differing polarity")
	}
}

func Test_Path_05_Merge(t *testing.T) {
	a := term.Path{{Cond: id("c1"), Polarity: true}}
	b := term.Path{{Cond: id("c2"), Polarity: false}}
	out, ok := Merge(a, b)
	if !ok || len(out) != 2 {
		t.Fatalf("Merge of disjoint paths should concatenate, got %+v ok=%v", out, ok)
	}

	contra, ok := Merge(a, term.Path{{Cond: id("c1"), Polarity: false}})
	if ok {
		t.Fatalf("Merge of contradictory paths should return ok=false, got %+v", contra)
	}
}

func Test_Path_06_ExprEmptyIsTrue(t *testing.T) {
	e := Expr(nil)
	if c, ok := e.(*ast.IntConst); !ok || c.Value != 1 {
		t.Fatalf("Expr(nil path) = %v, want the canonical True constant", e)
	}
}

func Test_Path_07_ExprNegatesFalsePolarity(t *testing.T) {
	p := term.Path{{Cond: id("c1"), Polarity: false}}
	e := Expr(p)
	u, ok := e.(*ast.Unary)
	if !ok || u.Op != ast.LNot {
		t.Fatalf("Expr of a negative-polarity literal should wrap it in LNot, got %v", e)
	}
}
