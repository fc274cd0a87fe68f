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
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/source"
)

// Parser turns the token stream produced by Lexer into internal/ast nodes.
// It reports malformed input as *source.SyntaxError against the original
// file, the same structured-error shape the rest of the tool uses for
// import-time diagnostics.
type Parser struct {
	lex  *Lexer
	file *source.File
	tok  Token
}

// NewParser constructs a parser over src, reporting errors against file.
func NewParser(src string, file *source.File) *Parser {
	p := &Parser{lex: NewLexer(src), file: file}
	p.advance()
	return p
}

func (p *Parser) advance() {
	for {
		p.tok = p.lex.Next()
		if p.tok.Kind != TokNewline {
			return
		}
	}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return p.file.SyntaxError(p.tok.Line, fmt.Sprintf(format, args...))
}

func (p *Parser) expectIdent(text string) error {
	if p.tok.Kind != TokIdent || p.tok.Text != text {
		return p.errorf("expected %q, got %q", text, p.tok.Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectPunct(text string) error {
	if p.tok.Kind != TokPunct || p.tok.Text != text {
		return p.errorf("expected %q, got %q", text, p.tok.Text)
	}
	p.advance()
	return nil
}

func (p *Parser) isIdent(text string) bool {
	return p.tok.Kind == TokIdent && p.tok.Text == text
}

func (p *Parser) isPunct(text string) bool {
	return p.tok.Kind == TokPunct && p.tok.Text == text
}

// ParseExpr parses a full expression, the lowest-precedence entry point
// (ternary conditional).
func (p *Parser) ParseExpr() (ast.Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.isPunct("?") {
		return cond, nil
	}
	p.advance()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: ast.LOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseBitwiseOr()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		p.advance()
		right, err := p.parseBitwiseOr()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: ast.LAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitwiseOr() (ast.Expr, error) {
	left, err := p.parseBitwiseXor()
	if err != nil {
		return nil, err
	}
	for p.isPunct("|") {
		p.advance()
		right, err := p.parseBitwiseXor()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitwiseXor() (ast.Expr, error) {
	left, err := p.parseBitwiseAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct("^") {
		p.advance()
		right, err := p.parseBitwiseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.Xor, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseBitwiseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.And, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.isPunct("==") || p.isPunct("!=") {
		op := ast.Eq
		if p.tok.Text == "!=" {
			op = ast.Neq
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Compare{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.isPunct(">") || p.isPunct(">=") || p.isPunct("<") || p.isPunct("<=") {
		var op ast.CompareOp
		switch p.tok.Text {
		case ">":
			op = ast.GreaterThan
		case ">=":
			op = ast.GreaterEq
		case "<":
			op = ast.LessThan
		case "<=":
			op = ast.LessEq
		}
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.Compare{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseShift() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.isPunct("<<") || p.isPunct(">>") {
		op := ast.Sll
		if p.tok.Text == ">>" {
			op = ast.Srl
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Shift{Op: op, Arg: left, Amount: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := ast.Plus
		if p.tok.Text == "-" {
			op = ast.Minus
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		var op ast.BinaryOp
		switch p.tok.Text {
		case "*":
			op = ast.Mult
		case "/":
			op = ast.Div
		case "%":
			op = ast.Mod
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	var op ast.UnaryOp
	switch {
	case p.isPunct("~"):
		op = ast.UNot
	case p.isPunct("!"):
		op = ast.LNot
	case p.isPunct("-"):
		op = ast.UMinus
	case p.isPunct("&"):
		op = ast.ReduceAnd
	case p.isPunct("|"):
		op = ast.ReduceOr
	case p.isPunct("^"):
		op = ast.ReduceXor
	default:
		return p.parsePostfix()
	}
	p.advance()
	arg, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Op: op, Arg: arg}, nil
}

// parsePostfix handles part-select (arg[msb:lsb]) and pointer (arg[index])
// suffixes, which may chain (e.g. a pointer into an array of vectors).
func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("[") {
		p.advance()
		first, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if p.isPunct(":") {
			p.advance()
			second, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			msb, mok := constOf(first)
			lsb, lok := constOf(second)
			if !mok || !lok {
				return nil, p.errorf("part-select bounds must be constant")
			}
			e = &ast.PartSelect{Arg: e, Msb: int(msb), Lsb: int(lsb)}
		} else {
			e = &ast.Pointer{Arg: e, Index: first}
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func constOf(e ast.Expr) (int64, bool) {
	if c, ok := e.(*ast.IntConst); ok {
		return c.Value, true
	}
	return 0, false
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.tok.Kind == TokIdent && len(p.tok.Text) > 0 && p.tok.Text[0] == '$':
		return p.parseSystemCall()
	case p.tok.Kind == TokIdent:
		name := p.tok.Text
		p.advance()
		return &ast.Identifier{Name: name}, nil
	case p.tok.Kind == TokInt:
		tok := p.tok
		p.advance()
		width := tok.Width
		if width == 0 {
			width = 32
		}
		return &ast.IntConst{Text: tok.Text, Width: width, Value: tok.IntValue}, nil
	case p.tok.Kind == TokString:
		text := p.tok.Text
		p.advance()
		return &ast.StringConst{Value: text}, nil
	case p.isPunct("("):
		p.advance()
		e, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	case p.isPunct("{"):
		return p.parseBrace()
	default:
		return nil, p.errorf("unexpected token %q in expression", p.tok.Text)
	}
}

// parseBrace parses either a Repeat ({N{expr}}) or a Concat ({a, b, ...}).
func (p *Parser) parseBrace() (ast.Expr, error) {
	p.advance() // {
	first, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if p.isPunct("{") {
		times, ok := constOf(first)
		if !ok {
			return nil, p.errorf("repeat count must be constant")
		}
		p.advance()
		value, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &ast.Repeat{Times: int(times), Value: value}, nil
	}
	args := []ast.Expr{first}
	for p.isPunct(",") {
		p.advance()
		arg, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ast.Concat{Args: args}, nil
}

func (p *Parser) parseSystemCall() (ast.Expr, error) {
	name := p.tok.Text[1:]
	p.advance()
	var fn ast.SystemFunc
	switch name {
	case "onehot":
		fn = ast.OneHot
	case "onehot0":
		fn = ast.OneHot0
	case "fopen":
		fn = ast.FOpen
	default:
		return nil, p.errorf("UnsupportedSyntax: unknown system function $%s", name)
	}
	var args []ast.Expr
	if p.isPunct("(") {
		p.advance()
		for !p.isPunct(")") {
			arg, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.isPunct(",") {
				p.advance()
			}
		}
		p.advance() // )
	}
	return &ast.SystemCallExpr{Func: fn, Args: args}, nil
}
