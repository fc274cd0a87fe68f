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

// Package ast provides a tagged-variant tree for the subset of synthesizable
// Verilog/SystemVerilog this tool understands: expressions, procedural
// statements, module-level declarations and instances. Nodes are plain structs
// with exported fields; most passes build replacement nodes, but some update
// fields in place (canon.RegPromote sets a declaration's Kind).
package ast

// Node is implemented by every element of the tree. Lisp renders a debug
// s-expression form, used by the debug CLI command and in tests.
type Node interface {
	Lisp() string
}

// Expr is implemented by every expression-position node.
type Expr interface {
	Node
	isExpr()
}

// Stmt is implemented by every statement-position node.
type Stmt interface {
	Node
	isStmt()
}

// ============================================================================
// Leaves
// ============================================================================

// Identifier is a reference to a declared term by name. The importer resolves
// every Identifier to exactly one term in the term table (spec §4.B); nothing
// downstream ever re-resolves it.
type Identifier struct {
	Name string
}

func (*Identifier) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Identifier) Lisp() string { return e.Name }

// IntConst is an integer literal with an explicit declared width, e.g. 8'hFF.
// The width is part of the literal's syntax, not inferred.
type IntConst struct {
	Text  string // raw literal text, e.g. "8'hFF"
	Width uint
	Value int64
}

func (*IntConst) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *IntConst) Lisp() string { return e.Text }

// StringConst is a string literal, used only as a $display format argument.
type StringConst struct {
	Value string
}

func (*StringConst) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *StringConst) Lisp() string { return "\"" + e.Value + "\"" }
