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

// Package emitter prints an instrumented internal/ast.Module back out as
// synthesizable Verilog text (spec §6, "Outputs": "an augmented Verilog
// file"). It only ever needs to round-trip what internal/importer can
// produce plus whatever internal/flowguard appended, so it is not a general
// Verilog pretty-printer.
package emitter

import (
	"fmt"
	"strings"

	"github.com/efeslab/veripass/internal/ast"
)

// Emit renders m as a single Verilog module definition.
func Emit(m *ast.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s(%s);\n", m.Name, strings.Join(m.Ports, ", "))
	for _, item := range m.Items {
		emitItem(&b, item)
	}
	b.WriteString("endmodule\n")
	return b.String()
}

func emitItem(b *strings.Builder, item ast.Stmt) {
	switch n := item.(type) {
	case *ast.Declaration:
		emitDecl(b, n)
	case *ast.ContinuousAssign:
		fmt.Fprintf(b, "  assign %s = %s;\n", expr(n.LHS), expr(n.RHS))
	case *ast.Always:
		emitAlways(b, n)
	case *ast.Instance:
		emitInstance(b, n)
	case *ast.InstanceList:
		for _, inst := range n.Instances {
			emitInstance(b, inst)
		}
	case *ast.Initial:
		fmt.Fprintf(b, "  initial begin\n")
		emitStmt(b, n.Body, 2)
		fmt.Fprintf(b, "  end\n")
	default:
		fmt.Fprintf(b, "  // unsupported item: %s\n", item.Lisp())
	}
}

var declKeyword = map[ast.DeclKind]string{
	ast.Input: "input", ast.Output: "output", ast.Wire: "wire",
	ast.Reg: "reg", ast.Parameter: "parameter", ast.Integer: "integer", ast.Time: "time",
}

func emitDecl(b *strings.Builder, d *ast.Declaration) {
	if d.Annotation != "" {
		fmt.Fprintf(b, "  // %s\n", d.Annotation)
	}
	kw := declKeyword[d.Kind]
	width := ""
	if d.Width > 1 {
		width = fmt.Sprintf("[%d:0] ", d.Width-1)
	}
	sign := ""
	if d.Signed {
		sign = "signed "
	}
	dim := ""
	if d.Dim > 0 {
		dim = fmt.Sprintf(" [%d:0]", d.Dim-1)
	}
	fmt.Fprintf(b, "  %s %s%s%s%s;\n", kw, sign, width, d.Name, dim)
}

func emitAlways(b *strings.Builder, a *ast.Always) {
	sens := make([]string, len(a.Senslist))
	for i, s := range a.Senslist {
		switch s.Edge {
		case ast.Posedge:
			sens[i] = "posedge " + s.Signal
		case ast.Negedge:
			sens[i] = "negedge " + s.Signal
		default:
			sens[i] = "*"
		}
	}
	fmt.Fprintf(b, "  always @(%s) begin\n", strings.Join(sens, " or "))
	emitStmt(b, a.Body, 2)
	fmt.Fprintf(b, "  end\n")
}

func emitInstance(b *strings.Builder, inst *ast.Instance) {
	indent := "  "
	fmt.Fprintf(b, "%s%s", indent, inst.Module)
	if len(inst.Params) > 0 {
		var parts []string
		for name, val := range inst.Params {
			parts = append(parts, fmt.Sprintf(".%s(%s)", name, expr(val)))
		}
		fmt.Fprintf(b, " #(%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, " %s(\n", inst.Name)
	var ports []string
	for name, val := range inst.Ports {
		ports = append(ports, fmt.Sprintf("    .%s(%s)", name, expr(val)))
	}
	fmt.Fprintf(b, "%s\n", strings.Join(ports, ",\n"))
	fmt.Fprintf(b, "%s);\n", indent)
}

func emitStmt(b *strings.Builder, s ast.Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			emitStmt(b, st, indent)
		}
	case *ast.Substitution:
		op := "<="
		if n.Blocking {
			op = "="
		}
		fmt.Fprintf(b, "%s%s %s %s;\n", pad, expr(n.LHS), op, expr(n.RHS))
	case *ast.IfStatement:
		fmt.Fprintf(b, "%sif (%s) begin\n", pad, expr(n.Cond))
		emitStmt(b, n.Then, indent+1)
		if n.Else != nil {
			fmt.Fprintf(b, "%send else begin\n", pad)
			emitStmt(b, n.Else, indent+1)
		}
		fmt.Fprintf(b, "%send\n", pad)
	case *ast.SystemCallStmt:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = expr(a)
		}
		fmt.Fprintf(b, "%s$%s(%s);\n", pad, n.Name, strings.Join(args, ", "))
	default:
		fmt.Fprintf(b, "%s// unsupported statement: %s\n", pad, s.Lisp())
	}
}

// expr renders an expression as infix Verilog text, switching on each node
// type. A node type not listed here falls back to its Lisp debug form.
func expr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.IntConst:
		return n.Text
	case *ast.StringConst:
		return "\"" + n.Value + "\""
	case *ast.PartSelect:
		return fmt.Sprintf("%s[%d:%d]", expr(n.Arg), n.Msb, n.Lsb)
	case *ast.Pointer:
		return fmt.Sprintf("%s[%s]", expr(n.Arg), expr(n.Index))
	case *ast.Concat:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = expr(a)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.Repeat:
		return fmt.Sprintf("{%d{%s}}", n.Times, expr(n.Value))
	case *ast.Unary:
		return unaryOp(n.Op) + expr(n.Arg)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", expr(n.Left), binaryOp(n.Op), expr(n.Right))
	case *ast.Compare:
		return fmt.Sprintf("(%s %s %s)", expr(n.Left), compareOp(n.Op), expr(n.Right))
	case *ast.Shift:
		op := "<<"
		if n.Op == ast.Srl {
			op = ">>"
		}
		return fmt.Sprintf("(%s %s %s)", expr(n.Arg), op, expr(n.Amount))
	case *ast.Logical:
		op := "&&"
		if n.Op == ast.LOr {
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", expr(n.Left), op, expr(n.Right))
	case *ast.SystemCallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = expr(a)
		}
		return fmt.Sprintf("$%s(%s)", systemFuncName(n.Func), strings.Join(args, ", "))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", expr(n.Cond), expr(n.Then), expr(n.Else))
	default:
		return e.Lisp()
	}
}

func unaryOp(op ast.UnaryOp) string {
	switch op {
	case ast.UNot:
		return "~"
	case ast.LNot:
		return "!"
	case ast.UMinus:
		return "-"
	case ast.ReduceAnd:
		return "&"
	case ast.ReduceOr:
		return "|"
	case ast.ReduceXor:
		return "^"
	default:
		return "?"
	}
}

func binaryOp(op ast.BinaryOp) string {
	switch op {
	case ast.And:
		return "&"
	case ast.Or:
		return "|"
	case ast.Xor:
		return "^"
	case ast.Plus:
		return "+"
	case ast.Minus:
		return "-"
	case ast.Mult:
		return "*"
	case ast.Div:
		return "/"
	case ast.Mod:
		return "%"
	default:
		return "?"
	}
}

func compareOp(op ast.CompareOp) string {
	switch op {
	case ast.Eq:
		return "=="
	case ast.Neq:
		return "!="
	case ast.GreaterThan:
		return ">"
	case ast.GreaterEq:
		return ">="
	case ast.LessThan:
		return "<"
	case ast.LessEq:
		return "<="
	default:
		return "?"
	}
}

func systemFuncName(f ast.SystemFunc) string {
	switch f {
	case ast.OneHot:
		return "onehot"
	case ast.OneHot0:
		return "onehot0"
	case ast.FOpen:
		return "fopen"
	default:
		return "unknown"
	}
}
