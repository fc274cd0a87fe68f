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

// ============================================================================
// PartSelect
// ============================================================================

// PartSelect represents arg[Msb:Lsb].
type PartSelect struct {
	Arg      Expr
	Msb, Lsb int
}

func (*PartSelect) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *PartSelect) Lisp() string {
	return fmt.Sprintf("(partselect %s %d %d)", e.Arg.Lisp(), e.Msb, e.Lsb)
}

// ============================================================================
// Pointer (array access)
// ============================================================================

// Pointer represents arg[Index], an access into a one-dimensional array.
type Pointer struct {
	Arg   Expr
	Index Expr
}

func (*Pointer) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Pointer) Lisp() string {
	return fmt.Sprintf("(pointer %s %s)", e.Arg.Lisp(), e.Index.Lisp())
}

// ============================================================================
// Concat / Repeat
// ============================================================================

// Concat represents {Args[0], Args[1], ...}, the leftmost argument occupying
// the most-significant bits.
type Concat struct {
	Args []Expr
}

func (*Concat) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Concat) Lisp() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Lisp()
	}
	return "(concat " + strings.Join(parts, " ") + ")"
}

// Repeat represents {Times{Value}}.
type Repeat struct {
	Times int
	Value Expr
}

func (*Repeat) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Repeat) Lisp() string {
	return fmt.Sprintf("(repeat %d %s)", e.Times, e.Value.Lisp())
}

// ============================================================================
// Operators
// ============================================================================

// UnaryOp identifies a unary operator.
type UnaryOp uint8

// Supported unary operators.
const (
	UNot UnaryOp = iota // bitwise negation (~)
	LNot                // logical negation (!)
	UMinus
	ReduceAnd
	ReduceOr
	ReduceXor
)

// Unary represents a unary operator applied to a single argument.
type Unary struct {
	Op  UnaryOp
	Arg Expr
}

func (*Unary) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Unary) Lisp() string {
	return fmt.Sprintf("(%s %s)", unaryName(e.Op), e.Arg.Lisp())
}

func unaryName(op UnaryOp) string {
	switch op {
	case UNot:
		return "~"
	case LNot:
		return "!"
	case UMinus:
		return "-"
	case ReduceAnd:
		return "&"
	case ReduceOr:
		return "|"
	case ReduceXor:
		return "^"
	default:
		return "?"
	}
}

// BinaryOp identifies a binary bitwise/arithmetic operator.
type BinaryOp uint8

// Supported binary operators.
const (
	And BinaryOp = iota
	Or
	Xor
	Plus
	Minus
	Mult
	Div
	Mod
)

// Binary represents a binary bitwise/arithmetic operator.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*Binary) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Binary) Lisp() string {
	return fmt.Sprintf("(%s %s %s)", binaryName(e.Op), e.Left.Lisp(), e.Right.Lisp())
}

func binaryName(op BinaryOp) string {
	names := map[BinaryOp]string{And: "&", Or: "|", Xor: "^", Plus: "+", Minus: "-", Mult: "*", Div: "/", Mod: "%"}
	return names[op]
}

// CompareOp identifies a comparison operator; every comparison yields a 1-bit
// result (spec §4.D).
type CompareOp uint8

// Supported comparison operators.
const (
	Eq CompareOp = iota
	Neq
	GreaterThan
	GreaterEq
	LessThan
	LessEq
)

// Compare represents a comparison between two expressions.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

func (*Compare) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Compare) Lisp() string {
	return fmt.Sprintf("(%s %s %s)", compareName(e.Op), e.Left.Lisp(), e.Right.Lisp())
}

func compareName(op CompareOp) string {
	names := map[CompareOp]string{Eq: "==", Neq: "!=", GreaterThan: ">", GreaterEq: ">=", LessThan: "<", LessEq: "<="}
	return names[op]
}

// ShiftOp identifies a shift direction.
type ShiftOp uint8

// Supported shift operators.
const (
	Sll ShiftOp = iota // shift left logical
	Srl                // shift right logical
)

// Shift represents arg << amount or arg >> amount.
type Shift struct {
	Op     ShiftOp
	Arg    Expr
	Amount Expr
}

func (*Shift) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Shift) Lisp() string {
	op := "<<"
	if e.Op == Srl {
		op = ">>"
	}
	return fmt.Sprintf("(%s %s %s)", op, e.Arg.Lisp(), e.Amount.Lisp())
}

// ConstAmount returns the shift amount as a constant, when the amount operand
// is an integer literal, and ok=false otherwise.
func (e *Shift) ConstAmount() (k int64, ok bool) {
	if c, isConst := e.Amount.(*IntConst); isConst {
		return c.Value, true
	}
	return 0, false
}

// LogicalOp identifies a logical connective; each operand and the result are
// 1-bit.
type LogicalOp uint8

// Supported logical connectives.
const (
	LAnd LogicalOp = iota
	LOr
)

// Logical represents a logical && or || connective.
type Logical struct {
	Op          LogicalOp
	Left, Right Expr
}

func (*Logical) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Logical) Lisp() string {
	op := "&&"
	if e.Op == LOr {
		op = "||"
	}
	return fmt.Sprintf("(%s %s %s)", op, e.Left.Lisp(), e.Right.Lisp())
}

// SystemFunc identifies a 1-bit-result system function such as $onehot.
type SystemFunc uint8

// Supported reduction / system functions.
const (
	OneHot SystemFunc = iota
	OneHot0
	FOpen
)

// SystemCallExpr represents a system function used in expression position,
// e.g. $onehot(x).
type SystemCallExpr struct {
	Func SystemFunc
	Args []Expr
}

func (*SystemCallExpr) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *SystemCallExpr) Lisp() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Lisp()
	}
	return "($" + systemFuncName(e.Func) + " " + strings.Join(parts, " ") + ")"
}

func systemFuncName(f SystemFunc) string {
	switch f {
	case OneHot:
		return "onehot"
	case OneHot0:
		return "onehot0"
	case FOpen:
		return "fopen"
	default:
		return "?"
	}
}

// ============================================================================
// Conditional
// ============================================================================

// Conditional represents cond ? then : els. The width visitor requires the
// then/else widths to match (spec §4.D).
type Conditional struct {
	Cond, Then, Else Expr
}

func (*Conditional) isExpr() {}

// Lisp renders this node as an s-expression.
func (e *Conditional) Lisp() string {
	return fmt.Sprintf("(? %s %s %s)", e.Cond.Lisp(), e.Then.Lisp(), e.Else.Lisp())
}
