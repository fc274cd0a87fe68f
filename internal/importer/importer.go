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
package importer

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/dataflow"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/source"
	"github.com/efeslab/veripass/internal/term"
)

// Import parses the small textual design description in src into an
// internal/ast.Module plus its internal/term.Table (spec §4.B), registering
// bindings for every continuous assignment, always-block substitution and
// (via models) memory-model instance. If models is non-nil, every
// instantiated module name it recognizes gets its zero-delay edges bound
// automatically (spec §4.I).
func Import(filename, src string, models *memmodel.Registry) (*ast.Module, *term.Table, error) {
	file := source.NewFile(filename, []byte(src))
	p := NewParser(src, file)
	table := term.NewTable()

	if err := p.expectIdent("module"); err != nil {
		return nil, nil, err
	}
	if p.tok.Kind != TokIdent {
		return nil, nil, p.errorf("expected module name")
	}
	module := &ast.Module{Name: p.tok.Text}
	p.advance()
	for p.tok.Kind == TokIdent && !isKeyword(p.tok.Text) {
		module.Ports = append(module.Ports, p.tok.Text)
		p.advance()
	}

	for p.tok.Kind == TokIdent && p.tok.Text != "endmodule" {
		var err error
		switch p.tok.Text {
		case "input", "output", "wire", "reg", "integer", "time":
			err = parseDecl(p, table, module)
		case "parameter":
			err = parseParameter(p, table, module)
		case "assign":
			err = parseAssign(p, table, module)
		case "always":
			err = parseAlways(p, table, module)
		case "instance":
			err = parseInstance(p, table, module, models)
		default:
			err = p.errorf("UnsupportedSyntax: unexpected top-level keyword %q", p.tok.Text)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if p.tok.Text != "endmodule" {
		return nil, nil, p.errorf("expected endmodule")
	}
	return module, table, nil
}

func isKeyword(s string) bool {
	switch s {
	case "input", "output", "wire", "reg", "parameter", "integer", "time",
		"assign", "always", "instance", "endmodule":
		return true
	}
	return false
}

var declKinds = map[string]ast.DeclKind{
	"input": ast.Input, "output": ast.Output, "wire": ast.Wire,
	"reg": ast.Reg, "integer": ast.Integer, "time": ast.Time,
}

// parseDecl parses `<kind> [signed] <width> <name> [<dim>]`.
func parseDecl(p *Parser, table *term.Table, module *ast.Module) error {
	kind := declKinds[p.tok.Text]
	p.advance()
	signed := false
	if p.isIdent("signed") {
		signed = true
		p.advance()
	}
	if p.tok.Kind != TokInt {
		return p.errorf("expected width")
	}
	width := uint(p.tok.IntValue)
	p.advance()
	if p.tok.Kind != TokIdent {
		return p.errorf("expected declared name")
	}
	name := p.tok.Text
	p.advance()
	var dim uint
	if p.tok.Kind == TokInt {
		dim = uint(p.tok.IntValue)
		p.advance()
	}
	t := &term.Term{Name: name, Width: width, Dim: dim, Signed: signed, Kind: kind}
	table.Declare(t)
	module.AddDeclaration(&ast.Declaration{Name: name, Kind: kind, Width: width, Dim: dim, Signed: signed})
	return nil
}

// parseParameter parses `parameter <name> = <int>`.
func parseParameter(p *Parser, table *term.Table, module *ast.Module) error {
	p.advance()
	if p.tok.Kind != TokIdent {
		return p.errorf("expected parameter name")
	}
	name := p.tok.Text
	p.advance()
	if err := p.expectPunct("="); err != nil {
		return err
	}
	if p.tok.Kind != TokInt {
		return p.errorf("parameter value must be a constant")
	}
	value := p.tok.IntValue
	width := p.tok.Width
	if width == 0 {
		width = 32
	}
	p.advance()
	t := &term.Term{Name: name, Width: width, Kind: ast.Parameter, Value: value, HasValue: true}
	table.Declare(t)
	module.AddDeclaration(&ast.Declaration{Name: name, Kind: ast.Parameter, Width: width})
	return nil
}

// parseAssign parses `assign <lhs> = <rhs>` as one unconditional,
// combinational binding against the destination term (spec §3).
func parseAssign(p *Parser, table *term.Table, module *ast.Module) error {
	p.advance()
	lhs, err := p.ParseExpr()
	if err != nil {
		return err
	}
	if err := p.expectPunct("="); err != nil {
		return err
	}
	rhs, err := p.ParseExpr()
	if err != nil {
		return err
	}
	module.AddAssign(&ast.ContinuousAssign{LHS: lhs, RHS: rhs})
	return recordBinding(table, lhs, rhs, term.Blocking, term.Clock{}, nil)
}

// parseAlways parses `always (posedge|negedge|star) [clock] <stmts>
// endalways`, collapsing every procedural if/else arm into flattened
// bindings as it walks (see internal/term.Binding.Path doc comment: this is
// the importer's responsibility the dataflow package assumes).
func parseAlways(p *Parser, table *term.Table, module *ast.Module) error {
	p.advance()
	var clock term.Clock
	switch {
	case p.isIdent("posedge"):
		p.advance()
		clock = term.Clock{Signal: p.tok.Text, Edge: ast.Posedge}
		p.advance()
	case p.isIdent("negedge"):
		p.advance()
		clock = term.Clock{Signal: p.tok.Text, Edge: ast.Negedge}
		p.advance()
	case p.isPunct("*"):
		p.advance()
	default:
		return p.errorf("expected posedge/negedge/* after always")
	}

	body, err := parseStmtSeq(p)
	if err != nil {
		return err
	}
	if err := p.expectIdent("endalways"); err != nil {
		return err
	}
	always := &ast.Always{Body: body}
	if clock.Signal != "" {
		always.Senslist = []ast.SensItem{{Signal: clock.Signal, Edge: clock.Edge}}
	}
	module.AddAlways(always)

	assignType := term.Blocking
	if clock.Signal != "" {
		assignType = term.Nonblocking
	}
	return collapse(table, body, nil, assignType, clock)
}

// parseStmtSeq parses a sequence of substitutions/if-statements until it
// reaches "endalways", "else" or "endif".
func parseStmtSeq(p *Parser) (ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.isIdent("endalways") && !p.isIdent("else") && !p.isIdent("endif") {
		stmt, err := parseStmt(p)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.Block{Stmts: stmts}, nil
}

func parseStmt(p *Parser) (ast.Stmt, error) {
	if p.isIdent("if") {
		p.advance()
		cond, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		then, err := parseStmtSeq(p)
		if err != nil {
			return nil, err
		}
		var els ast.Stmt
		if p.isIdent("else") {
			p.advance()
			els, err = parseStmtSeq(p)
			if err != nil {
				return nil, err
			}
		}
		if err := p.expectIdent("endif"); err != nil {
			return nil, err
		}
		return &ast.IfStatement{Cond: cond, Then: then, Else: els}, nil
	}

	lhs, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	blocking := false
	switch {
	case p.isPunct("<="):
		blocking = false
	case p.isPunct("="):
		blocking = true
	default:
		return nil, p.errorf("expected assignment operator")
	}
	p.advance()
	rhs, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Substitution{LHS: lhs, RHS: rhs, Blocking: blocking}, nil
}

// parseInstance parses `instance <module> <name> .port=expr... endinstance`
// and, when models recognizes the module name, binds the black-box model's
// zero-delay edges (spec §4.I).
func parseInstance(p *Parser, table *term.Table, module *ast.Module, models *memmodel.Registry) error {
	p.advance()
	if p.tok.Kind != TokIdent {
		return p.errorf("expected instantiated module name")
	}
	modName := p.tok.Text
	p.advance()
	if p.tok.Kind != TokIdent {
		return p.errorf("expected instance name")
	}
	instName := p.tok.Text
	p.advance()

	inst := &ast.Instance{Module: modName, Name: instName, Params: map[string]ast.Expr{}, Ports: map[string]ast.Expr{}}
	for p.tok.Kind == TokIdent && p.tok.Text != "endinstance" {
		port := p.tok.Text
		p.advance()
		if err := p.expectPunct("="); err != nil {
			return err
		}
		expr, err := p.ParseExpr()
		if err != nil {
			return err
		}
		inst.Ports[port] = expr
	}
	if err := p.expectIdent("endinstance"); err != nil {
		return err
	}
	module.Items = append(module.Items, inst)

	if models != nil {
		if model, ok := models.Lookup(modName); ok {
			model.Bind(table, inst)
		}
	}
	return nil
}

// collapse walks a parsed always-block body, turning every branch into an
// explicit path-condition prefix and recording one term.Binding per
// Substitution leaf (see internal/term.Binding's doc comment).
func collapse(table *term.Table, s ast.Stmt, path term.Path, assignType term.AssignType, clock term.Clock) error {
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			if err := collapse(table, st, path, assignType, clock); err != nil {
				return err
			}
		}
		return nil
	case *ast.IfStatement:
		thenPath := dataflow.Append(path, n.Cond, true)
		if norm, ok := dataflow.Normalize(thenPath); ok {
			if err := collapse(table, n.Then, norm, assignType, clock); err != nil {
				return err
			}
		}
		if n.Else != nil {
			elsePath := dataflow.Append(path, n.Cond, false)
			if norm, ok := dataflow.Normalize(elsePath); ok {
				if err := collapse(table, n.Else, norm, assignType, clock); err != nil {
					return err
				}
			}
		}
		return nil
	case *ast.Substitution:
		at := assignType
		if n.Blocking {
			at = term.Blocking
		}
		return recordBinding(table, n.LHS, n.RHS, at, clock, path)
	default:
		return nil
	}
}

// recordBinding resolves an lvalue expression (identifier, part-select or
// pointer) into a term.Binding and adds it to the table, classifying the
// written bits' DFF status as it goes (spec §9).
func recordBinding(table *term.Table, lhs, rhs ast.Expr, assignType term.AssignType, clock term.Clock, path term.Path) error {
	name, rng, ptr := lvalueParts(lhs)
	dest, ok := table.Lookup(name)
	if !ok {
		return nil // UnresolvedTerm is reported by the width visitor downstream
	}
	table.AddBinding(&term.Binding{
		Dest: dest, Range: rng, Ptr: ptr, Source: rhs,
		Assign: assignType, Clock: clock, Path: path,
	})
	msb, lsb := int(dest.Width)-1, 0
	if rng.Present {
		msb, lsb = rng.Msb, rng.Lsb
	}
	return table.ClassifyBits(name, dest.Width, msb, lsb, assignType.IsModel() || assignType == term.Nonblocking)
}

func lvalueParts(e ast.Expr) (string, term.Range, term.Index) {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name, term.WholeTerm, term.NoIndex
	case *ast.PartSelect:
		if id, ok := n.Arg.(*ast.Identifier); ok {
			return id.Name, term.NewRange(n.Msb, n.Lsb), term.NoIndex
		}
	case *ast.Pointer:
		if id, ok := n.Arg.(*ast.Identifier); ok {
			if c, ok := n.Index.(*ast.IntConst); ok {
				return id.Name, term.WholeTerm, term.ConstIndex(int(c.Value))
			}
			return id.Name, term.WholeTerm, term.VarIndex(n.Index.Lisp())
		}
	}
	return "", term.WholeTerm, term.NoIndex
}
