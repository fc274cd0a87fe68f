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

import (
	"fmt"
	"strings"
)

// Substitution is an assignment statement. Blocking=false identifies the
// nonblocking "<=" form, which the importer treats as a register binding
// (spec §3, Binding.assigntype).
type Substitution struct {
	LHS      Expr
	RHS      Expr
	Blocking bool
}

func (*Substitution) isStmt() {}

// Lisp renders this node as an s-expression.
func (s *Substitution) Lisp() string {
	op := "<="
	if s.Blocking {
		op = "="
	}
	return fmt.Sprintf("(%s %s %s)", op, s.LHS.Lisp(), s.RHS.Lisp())
}

// IfStatement is a procedural if/else. Else may be nil.
type IfStatement struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStatement) isStmt() {}

// Lisp renders this node as an s-expression.
func (s *IfStatement) Lisp() string {
	if s.Else == nil {
		return fmt.Sprintf("(if %s %s)", s.Cond.Lisp(), s.Then.Lisp())
	}
	return fmt.Sprintf("(if %s %s %s)", s.Cond.Lisp(), s.Then.Lisp(), s.Else.Lisp())
}

// Block is a begin/end sequence of statements.
type Block struct {
	Stmts []Stmt
}

func (*Block) isStmt() {}

// Lisp renders this node as an s-expression.
func (s *Block) Lisp() string {
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.Lisp()
	}
	return "(begin " + strings.Join(parts, " ") + ")"
}

// Edge identifies an edge-sensitivity in a sensitivity list entry.
type Edge uint8

// Supported edges.
const (
	Posedge Edge = iota
	Negedge
	AnyEdge
)

// SensItem is one entry of an always-block's sensitivity list.
type SensItem struct {
	Signal string
	Edge   Edge
}

// Always represents always @(senslist) body. A clocked always-block has
// exactly one posedge/negedge entry in Senslist, identifying the clock that
// every nonblocking assignment within body is synchronous to (spec §5).
type Always struct {
	Senslist []SensItem
	Body     Stmt
}

func (*Always) isStmt() {}

// Lisp renders this node as an s-expression.
func (a *Always) Lisp() string {
	return fmt.Sprintf("(always %v %s)", a.Senslist, a.Body.Lisp())
}

// Clock returns the posedge/negedge signal this always-block is synchronous
// to, and ok=false if it has none (a combinational always-block).
func (a *Always) Clock() (name string, edge Edge, ok bool) {
	for _, s := range a.Senslist {
		if s.Edge == Posedge || s.Edge == Negedge {
			return s.Signal, s.Edge, true
		}
	}
	return "", 0, false
}

// ContinuousAssign represents a top-level "assign lhs = rhs;" statement,
// always combinational.
type ContinuousAssign struct {
	LHS Expr
	RHS Expr
}

func (*ContinuousAssign) isStmt() {}

// Lisp renders this node as an s-expression.
func (s *ContinuousAssign) Lisp() string {
	return fmt.Sprintf("(assign %s %s)", s.LHS.Lisp(), s.RHS.Lisp())
}

// SystemCallStmt is a system task call used in statement position, such as
// $display. VerilatorTag carries an optional coverage/lint annotation that
// round-trips through re-parses (spec §4.A).
type SystemCallStmt struct {
	Name         string
	Args         []Expr
	VerilatorTag string
}

func (*SystemCallStmt) isStmt() {}

// Lisp renders this node as an s-expression.
func (s *SystemCallStmt) Lisp() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.Lisp()
	}
	return "($" + s.Name + " " + strings.Join(parts, " ") + ")"
}
