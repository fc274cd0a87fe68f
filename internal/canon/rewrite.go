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

// Package canon implements the canonicalization passes spec.md §4.D lists as
// running before FlowGuard's own analysis: splitting constant-indexed arrays
// into independent scalar terms, promoting "logic"-style declarations driven
// from a clocked always-block to explicit registers, and hoisting repeated
// part-selects into named wires. Each is a internal/pass.Pass, run left to
// right, pre-order, over the whole module (spec §5).
package canon

import "github.com/efeslab/veripass/internal/ast"

// mapExpr rewrites e bottom-up: every child is rewritten first, then fn is
// applied to the (already-rewritten) node itself. A pass that wants to
// replace one specific shape of node does so inside fn; mapExpr handles
// walking the rest of the tree unchanged.
func mapExpr(e ast.Expr, fn func(ast.Expr) ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier, *ast.IntConst, *ast.StringConst:
		return fn(e)
	case *ast.PartSelect:
		return fn(&ast.PartSelect{Arg: mapExpr(n.Arg, fn), Msb: n.Msb, Lsb: n.Lsb})
	case *ast.Pointer:
		return fn(&ast.Pointer{Arg: mapExpr(n.Arg, fn), Index: mapExpr(n.Index, fn)})
	case *ast.Concat:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, fn)
		}
		return fn(&ast.Concat{Args: args})
	case *ast.Repeat:
		return fn(&ast.Repeat{Times: n.Times, Value: mapExpr(n.Value, fn)})
	case *ast.Unary:
		return fn(&ast.Unary{Op: n.Op, Arg: mapExpr(n.Arg, fn)})
	case *ast.Binary:
		return fn(&ast.Binary{Op: n.Op, Left: mapExpr(n.Left, fn), Right: mapExpr(n.Right, fn)})
	case *ast.Compare:
		return fn(&ast.Compare{Op: n.Op, Left: mapExpr(n.Left, fn), Right: mapExpr(n.Right, fn)})
	case *ast.Shift:
		return fn(&ast.Shift{Op: n.Op, Arg: mapExpr(n.Arg, fn), Amount: mapExpr(n.Amount, fn)})
	case *ast.Logical:
		return fn(&ast.Logical{Op: n.Op, Left: mapExpr(n.Left, fn), Right: mapExpr(n.Right, fn)})
	case *ast.SystemCallExpr:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, fn)
		}
		return fn(&ast.SystemCallExpr{Func: n.Func, Args: args})
	case *ast.Conditional:
		return fn(&ast.Conditional{Cond: mapExpr(n.Cond, fn), Then: mapExpr(n.Then, fn), Else: mapExpr(n.Else, fn)})
	default:
		return fn(e)
	}
}

// mapStmt rewrites every expression reachable from s using fn, preserving
// statement structure.
func mapStmt(s ast.Stmt, fn func(ast.Expr) ast.Expr) ast.Stmt {
	switch n := s.(type) {
	case *ast.Block:
		stmts := make([]ast.Stmt, len(n.Stmts))
		for i, st := range n.Stmts {
			stmts[i] = mapStmt(st, fn)
		}
		return &ast.Block{Stmts: stmts}
	case *ast.IfStatement:
		var els ast.Stmt
		if n.Else != nil {
			els = mapStmt(n.Else, fn)
		}
		return &ast.IfStatement{Cond: mapExpr(n.Cond, fn), Then: mapStmt(n.Then, fn), Else: els}
	case *ast.Substitution:
		return &ast.Substitution{LHS: mapExpr(n.LHS, fn), RHS: mapExpr(n.RHS, fn), Blocking: n.Blocking}
	case *ast.SystemCallStmt:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = mapExpr(a, fn)
		}
		return &ast.SystemCallStmt{Name: n.Name, Args: args, VerilatorTag: n.VerilatorTag}
	default:
		return s
	}
}

// mapModule rewrites every expression reachable from m's items (continuous
// assigns, always-block bodies, instance port connections) using fn, in
// place.
func mapModule(m *ast.Module, fn func(ast.Expr) ast.Expr) {
	for i, item := range m.Items {
		switch n := item.(type) {
		case *ast.ContinuousAssign:
			m.Items[i] = &ast.ContinuousAssign{LHS: mapExpr(n.LHS, fn), RHS: mapExpr(n.RHS, fn)}
		case *ast.Always:
			m.Items[i] = &ast.Always{Senslist: n.Senslist, Body: mapStmt(n.Body, fn)}
		case *ast.Instance:
			ports := make(map[string]ast.Expr, len(n.Ports))
			for name, e := range n.Ports {
				ports[name] = mapExpr(e, fn)
			}
			m.Items[i] = &ast.Instance{Module: n.Module, Name: n.Name, Params: n.Params, Ports: ports}
		case *ast.InstanceList:
			insts := make([]*ast.Instance, len(n.Instances))
			for j, inst := range n.Instances {
				ports := make(map[string]ast.Expr, len(inst.Ports))
				for name, e := range inst.Ports {
					ports[name] = mapExpr(e, fn)
				}
				insts[j] = &ast.Instance{Module: inst.Module, Name: inst.Name, Params: inst.Params, Ports: ports}
			}
			m.Items[i] = &ast.InstanceList{Module: n.Module, Instances: insts}
		}
	}
}

// walkExpr visits every node of e, calling visit on each (pre-order,
// left-to-right, spec §5).
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ast.PartSelect:
		walkExpr(n.Arg, visit)
	case *ast.Pointer:
		walkExpr(n.Arg, visit)
		walkExpr(n.Index, visit)
	case *ast.Concat:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.Repeat:
		walkExpr(n.Value, visit)
	case *ast.Unary:
		walkExpr(n.Arg, visit)
	case *ast.Binary:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.Compare:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.Shift:
		walkExpr(n.Arg, visit)
		walkExpr(n.Amount, visit)
	case *ast.Logical:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.SystemCallExpr:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.Conditional:
		walkExpr(n.Cond, visit)
		walkExpr(n.Then, visit)
		walkExpr(n.Else, visit)
	}
}

// walkStmt visits every expression reachable from s.
func walkStmt(s ast.Stmt, visit func(ast.Expr)) {
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			walkStmt(st, visit)
		}
	case *ast.IfStatement:
		walkExpr(n.Cond, visit)
		walkStmt(n.Then, visit)
		if n.Else != nil {
			walkStmt(n.Else, visit)
		}
	case *ast.Substitution:
		walkExpr(n.LHS, visit)
		walkExpr(n.RHS, visit)
	case *ast.SystemCallStmt:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	}
}

// walkModule visits every expression reachable from m's items.
func walkModule(m *ast.Module, visit func(ast.Expr)) {
	for _, item := range m.Items {
		switch n := item.(type) {
		case *ast.ContinuousAssign:
			walkExpr(n.LHS, visit)
			walkExpr(n.RHS, visit)
		case *ast.Always:
			walkStmt(n.Body, visit)
		case *ast.Instance:
			for _, e := range n.Ports {
				walkExpr(e, visit)
			}
		case *ast.InstanceList:
			for _, inst := range n.Instances {
				for _, e := range inst.Ports {
					walkExpr(e, visit)
				}
			}
		}
	}
}
