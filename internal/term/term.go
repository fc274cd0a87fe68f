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

// Package term implements the data model of spec.md §3: terms (signals),
// bindings (their drivers), target slices (the identity FlowGuard tracks) and
// the per-bit DFF classification carried alongside the term table.
package term

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
)

// Kind mirrors ast.DeclKind but is attached to a resolved term rather than a
// raw declaration.
type Kind = ast.DeclKind

// Term is a fully-qualified signal: a declared bit-width, optional array
// dimension, signedness and kind. Invariants (spec §3): Width >= 1; Dim == 0
// for a scalar or >= 1 for a one-dimensional array; a Parameter term carries a
// constant Value.
type Term struct {
	Name     string
	Width    uint
	Dim      uint // 0 = scalar
	Signed   bool
	Kind     Kind
	Value    int64 // meaningful only when Kind == ast.Parameter
	HasValue bool
}

// IsArray reports whether this term is a one-dimensional array.
func (t *Term) IsArray() bool { return t.Dim > 0 }

// String renders the term's qualified name, used as its map key and in debug
// output.
func (t *Term) String() string { return t.Name }

// AssignType identifies how a binding writes its destination. "blocking" and
// "nonblocking" are the two procedural-assignment forms; any other value
// names a registered black-box memory model (spec §3, Binding.assigntype).
type AssignType string

// The two procedural-assignment assign types. Any other value is a black-box
// model name (see internal/memmodel).
const (
	Blocking    AssignType = "blocking"
	Nonblocking AssignType = "nonblocking"
)

// IsModel reports whether this assign type names a black-box memory model
// rather than a procedural assignment kind.
func (a AssignType) IsModel() bool {
	return a != Blocking && a != Nonblocking
}

// Clock identifies the clock (and edge) a nonblocking binding is synchronous
// to. A combinational binding has an empty Clock.Signal.
type Clock struct {
	Signal string
	Edge   ast.Edge
}

// Index is the array-index component of a binding or target slice: either a
// constant value, or a (non-constant) expression rendered to a stable string
// for structural equality (spec §3, TargetEntry identity).
type Index struct {
	Present  bool
	Const    bool
	Value    int
	ExprText string
}

// NoIndex is the index of a binding/slice that does not touch an array.
var NoIndex = Index{}

// ConstIndex constructs a constant array index.
func ConstIndex(v int) Index {
	return Index{Present: true, Const: true, Value: v}
}

// VarIndex constructs a non-constant array index, identified by the stable
// text rendering of the indexing expression.
func VarIndex(exprText string) Index {
	return Index{Present: true, Const: false, ExprText: exprText}
}

// String renders the index for debug output.
func (p Index) String() string {
	if !p.Present {
		return "-"
	}
	if p.Const {
		return fmt.Sprintf("%d", p.Value)
	}
	return p.ExprText
}

// Range is an optional [Msb:Lsb] bit-range; Present=false means "the whole
// term" (spec §3, Binding: "If msb=lsb=ptr=None the binding covers the whole
// term").
type Range struct {
	Present  bool
	Msb, Lsb int
}

// WholeTerm is the range of a binding/slice that covers the entire term.
var WholeTerm = Range{}

// NewRange constructs a present [msb:lsb] range.
func NewRange(msb, lsb int) Range {
	return Range{true, msb, lsb}
}

// Width returns the number of bits covered, or the term's own width if the
// range is not present.
func (r Range) Width(whole uint) uint {
	if !r.Present {
		return whole
	}
	return uint(r.Msb-r.Lsb) + 1
}

// Literal is one entry of a path condition: a condition node and the
// polarity under which this binding applies (spec §3, "Path condition").
type Literal struct {
	Cond     ast.Expr
	Polarity bool
}

// Path is an ordered conjunction of path-condition literals, contributed by
// the enclosing procedural if/else structure a binding was collapsed out of
// at import time (see internal/importer). An empty Path is an unconditional
// binding.
type Path []Literal

// Binding is one driver of a destination term (spec §3). A term may have
// several bindings covering different slices or reachable under different
// conditions; FlowGuard's data-dependency visitor walks Source to discover
// which source terms feed which bits of Dest. Path captures the condition
// under which this particular binding applies, distilled from the
// enclosing if/else structure at import time; Source may itself contain
// further (ternary) conditionals contributing additional path literals
// discovered while walking it.
type Binding struct {
	Dest   *Term
	Range  Range
	Ptr    Index
	Source interface{} // *ast.Expr-compatible source-expression tree (ast.Expr)
	Assign AssignType
	Clock  Clock
	Path   Path
}

// SourceExpr returns the binding's source expression.
func (b *Binding) SourceExpr() ast.Expr {
	if b.Source == nil {
		return nil
	}
	return b.Source.(ast.Expr)
}

// IsRegister reports whether this binding identifies a register (clocked,
// nonblocking) edge, as opposed to a combinational or black-box-model edge.
func (b *Binding) IsRegister() bool {
	return b.Assign == Nonblocking
}
