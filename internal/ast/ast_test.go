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
package ast

import "testing"

func Test_Expr_01_Lisp(t *testing.T) {
	cases := []struct {
		name string
		expr Expr
		want string
	}{
		{"identifier", &Identifier{Name: "foo"}, "foo"},
		{"intconst", &IntConst{Text: "8'hFF", Width: 8, Value: 255}, "8'hFF"},
		{"stringconst", &StringConst{Value: "hi"}, "\"hi\""},
		{"partselect", &PartSelect{Arg: &Identifier{Name: "a"}, Msb: 3, Lsb: 0}, "(partselect a 3 0)"},
		{"pointer", &Pointer{Arg: &Identifier{Name: "a"}, Index: &IntConst{Text: "2", Value: 2}}, "(pointer a 2)"},
		{"unary", &Unary{Op: UNot, Arg: &Identifier{Name: "a"}}, "(~ a)"},
		{"binary", &Binary{Op: Plus, Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}}, "(+ a b)"},
		{"compare", &Compare{Op: Eq, Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}}, "(== a b)"},
		{"shift", &Shift{Op: Sll, Arg: &Identifier{Name: "a"}, Amount: &IntConst{Text: "1", Value: 1}}, "(<< a 1)"},
		{"logical", &Logical{Op: LAnd, Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}}, "(&& a b)"},
		{"conditional", &Conditional{Cond: &Identifier{Name: "c"}, Then: &Identifier{Name: "a"}, Else: &Identifier{Name: "b"}}, "(? c a b)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.expr.Lisp(); got != c.want {
				t.Fatalf("Lisp() = %q, want %q", got, c.want)
			}
		})
	}
}

func Test_Expr_02_Concat_Repeat(t *testing.T) {
	c := &Concat{Args: []Expr{&Identifier{Name: "a"}, &Identifier{Name: "b"}}}
	if got, want := c.Lisp(), "(concat a b)"; got != want {
		t.Fatalf("Concat.Lisp() = %q, want %q", got, want)
	}
	r := &Repeat{Times: 4, Value: &Identifier{Name: "a"}}
	if got, want := r.Lisp(), "(repeat 4 a)"; got != want {
		t.Fatalf("Repeat.Lisp() = %q, want %q", got, want)
	}
}

func Test_Expr_03_ShiftConstAmount(t *testing.T) {
	s := &Shift{Op: Sll, Arg: &Identifier{Name: "a"}, Amount: &IntConst{Text: "3", Value: 3}}
	k, ok := s.ConstAmount()
	if !ok || k != 3 {
		t.Fatalf("ConstAmount() = (%d, %v), want (3, true)", k, ok)
	}
	s2 := &Shift{Op: Sll, Arg: &Identifier{Name: "a"}, Amount: &Identifier{Name: "n"}}
	if _, ok := s2.ConstAmount(); ok {
		t.Fatalf("ConstAmount() on non-const amount should return ok=false")
	}
}

func Test_Expr_04_SystemCallExpr(t *testing.T) {
	e := &SystemCallExpr{Func: OneHot, Args: []Expr{&Identifier{Name: "a"}}}
	if got, want := e.Lisp(), "($onehot a)"; got != want {
		t.Fatalf("SystemCallExpr.Lisp() = %q, want %q", got, want)
	}
}

func Test_Module_01_Accessors(t *testing.T) {
	m := &Module{Name: "top", Ports: []string{"clk"}}
	decl := &Declaration{Name: "a", Kind: Wire, Width: 1}
	assign := &ContinuousAssign{LHS: &Identifier{Name: "a"}, RHS: &IntConst{Text: "0", Value: 0}}
	always := &Always{Senslist: []SensItem{{Signal: "clk", Edge: Posedge}}, Body: &Block{}}
	inst := &Instance{Module: "sub", Name: "u0"}

	m.AddDeclaration(decl)
	m.AddAssign(assign)
	m.AddAlways(always)
	m.Items = append(m.Items, inst)

	if len(m.Declarations()) != 1 || m.Declarations()[0] != decl {
		t.Fatalf("Declarations() did not return the declared decl")
	}
	if len(m.Assigns()) != 1 || m.Assigns()[0] != assign {
		t.Fatalf("Assigns() did not return the added assign")
	}
	if len(m.Always()) != 1 || m.Always()[0] != always {
		t.Fatalf("Always() did not return the added always block")
	}
	if len(m.Instances()) != 1 || m.Instances()[0] != inst {
		t.Fatalf("Instances() did not return the added instance")
	}
}

func Test_Module_02_InstanceList(t *testing.T) {
	i1 := &Instance{Module: "sub", Name: "u0"}
	i2 := &Instance{Module: "sub", Name: "u1"}
	list := &InstanceList{Module: "sub", Instances: []*Instance{i1, i2}}
	m := &Module{Name: "top", Items: []Stmt{list}}
	insts := m.Instances()
	if len(insts) != 2 || insts[0] != i1 || insts[1] != i2 {
		t.Fatalf("Instances() over an InstanceList = %v, want [u0 u1]", insts)
	}
}

func Test_Always_01_Clock(t *testing.T) {
	a := &Always{Senslist: []SensItem{{Signal: "clk", Edge: Posedge}}}
	name, edge, ok := a.Clock()
	if !ok || name != "clk" || edge != Posedge {
		t.Fatalf("Clock() = (%q, %v, %v), want (clk, Posedge, true)", name, edge, ok)
	}

	comb := &Always{Senslist: []SensItem{{Signal: "a", Edge: AnyEdge}}}
	if _, _, ok := comb.Clock(); ok {
		t.Fatalf("Clock() on a combinational always-block should return ok=false")
	}
}

func Test_Substitution_01_Lisp(t *testing.T) {
	nb := &Substitution{LHS: &Identifier{Name: "q"}, RHS: &Identifier{Name: "d"}, Blocking: false}
	if got, want := nb.Lisp(), "(<= q d)"; got != want {
		t.Fatalf("Substitution.Lisp() = %q, want %q", got, want)
	}
	b := &Substitution{LHS: &Identifier{Name: "q"}, RHS: &Identifier{Name: "d"}, Blocking: true}
	if got, want := b.Lisp(), "(= q d)"; got != want {
		t.Fatalf("Substitution.Lisp() = %q, want %q", got, want)
	}
}

func Test_IfStatement_01_Lisp(t *testing.T) {
	then := &Substitution{LHS: &Identifier{Name: "a"}, RHS: &IntConst{Text: "1", Value: 1}, Blocking: true}
	ifNoElse := &IfStatement{Cond: &Identifier{Name: "c"}, Then: then}
	if got, want := ifNoElse.Lisp(), "(if c (= a 1))"; got != want {
		t.Fatalf("IfStatement.Lisp() (no else) = %q, want %q", got, want)
	}
	els := &Substitution{LHS: &Identifier{Name: "a"}, RHS: &IntConst{Text: "0", Value: 0}, Blocking: true}
	ifElse := &IfStatement{Cond: &Identifier{Name: "c"}, Then: then, Else: els}
	if got, want := ifElse.Lisp(), "(if c (= a 1) (= a 0))"; got != want {
		t.Fatalf("IfStatement.Lisp() (with else) = %q, want %q", got, want)
	}
}
