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
package flowguard

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/dataflow"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/term"
)

// CheckSite is one injected liveness check: "assign_q ∧ ¬(good_q ∨ prop_q)"
// on slice n's clock, reporting a loss (spec §4.H Phase 5, §8 S3).
type CheckSite struct {
	Slice     *term.Slice
	Clock     term.Clock
	Condition ast.Expr
}

// Synthesis is everything Phase 5 (plus the array fan-out of Phase 6)
// appends to the module: new declarations, continuous assignments, clocked
// always-blocks and the liveness checks.
type Synthesis struct {
	Decls   []*ast.Declaration
	Assigns []*ast.ContinuousAssign
	Always  []*ast.Always
	Checks  []*CheckSite
}

// synthContext carries the cross-slice state Phase 5 needs: the escaper, the
// source's valid wire, the reset signal, and a lookup from slice key to its
// (possibly still-being-built) valid-signal name.
type synthContext struct {
	esc         *instrument.Escaper
	chain       *Chain
	g           *graph
	source      *term.Slice
	sourceValid string
	reset       string
	names       map[term.Key]string // escaped slice name, memoized
	filtered    map[string]bool
}

// Synthesize implements spec.md §4.H Phase 5 (signal synthesis) together
// with Phase 6 (array fan-out, via FanOut and FanValid) for every
// slice of the propagation chain.
func (e *Engine) Synthesize(chain *Chain, g *graph, source *term.Slice, sourceValidName, resetName string, filtered map[string]bool) (*Synthesis, error) {
	ctx := &synthContext{
		esc: instrument.NewEscaper(), chain: chain, g: g,
		source: source, sourceValid: sourceValidName, reset: resetName,
		names: make(map[term.Key]string), filtered: filtered,
	}
	out := &Synthesis{}

	for _, n := range chain.Slices {
		name, err := ctx.nameOf(n)
		if err != nil {
			return nil, err
		}
		isDFF := chain.DFF[n.Key()]

		assignExpr := bexp.Simplify(e.assignExprFor(n))
		avExpr := bexp.Simplify(e.avExprFor(ctx, n))
		aiExpr := bexp.Simplify(bexp.And(assignExpr, bexp.Not(avExpr)))

		declRange := n.Range.Present
		mk := func(suffix instrument.Suffix) string {
			if !declRange {
				return instrument.SignalName(name, false, 0, 0, suffix)
			}
			return instrument.SignalName(name, true, n.Range.Msb, n.Range.Lsb, suffix)
		}

		assignWire := mk(instrument.SuffixAssign)
		avWire := mk(instrument.SuffixAV)
		aiWire := mk(instrument.SuffixAI)
		validWire := mk(instrument.SuffixValid)

		out.Decls = append(out.Decls,
			&ast.Declaration{Name: assignWire, Kind: ast.Wire, Width: 1},
			&ast.Declaration{Name: avWire, Kind: ast.Wire, Width: 1},
			&ast.Declaration{Name: aiWire, Kind: ast.Wire, Width: 1},
			&ast.Declaration{Name: validWire, Kind: ast.Wire, Width: 1},
		)
		out.Assigns = append(out.Assigns,
			&ast.ContinuousAssign{LHS: &ast.Identifier{Name: assignWire}, RHS: assignExpr},
			&ast.ContinuousAssign{LHS: &ast.Identifier{Name: avWire}, RHS: avExpr},
			&ast.ContinuousAssign{LHS: &ast.Identifier{Name: aiWire}, RHS: aiExpr},
		)

		entryDecls, entryAssigns, err := FanOut(n, &ast.Identifier{Name: avWire}, ctx.nameOf)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, entryDecls...)
		out.Assigns = append(out.Assigns, entryAssigns...)

		if !isDFF {
			out.Assigns = append(out.Assigns,
				&ast.ContinuousAssign{LHS: &ast.Identifier{Name: validWire}, RHS: &ast.Identifier{Name: avWire}})
			continue
		}

		// DFF slice: full _q register bank plus prop/good and the loss check
		// (spec §4.H Phase 5 table). A slice with no recorded clock (a
		// dangling black-box binding) cannot be given a clocked always-block;
		// fall back to its combinational valid in that case.
		clock := e.clockOf(chain, n)
		if clock.Signal == "" {
			out.Assigns = append(out.Assigns,
				&ast.ContinuousAssign{LHS: &ast.Identifier{Name: validWire}, RHS: &ast.Identifier{Name: avWire}})
			continue
		}
		avQ, aiQ, assignQ, validQ := mk(instrument.SuffixAVQ), mk(instrument.SuffixAIQ), mk(instrument.SuffixAssignQ), mk(instrument.SuffixValidQ)
		propWire, propQ := mk(instrument.SuffixProp), mk(instrument.SuffixPropQ)
		goodQ := mk(instrument.SuffixGoodQ)

		propExpr := bexp.Simplify(e.propExprFor(ctx, n))

		out.Decls = append(out.Decls,
			&ast.Declaration{Name: avQ, Kind: ast.Reg, Width: 1},
			&ast.Declaration{Name: aiQ, Kind: ast.Reg, Width: 1},
			&ast.Declaration{Name: assignQ, Kind: ast.Reg, Width: 1},
			&ast.Declaration{Name: validQ, Kind: ast.Reg, Width: 1},
			&ast.Declaration{Name: propWire, Kind: ast.Wire, Width: 1},
			&ast.Declaration{Name: propQ, Kind: ast.Reg, Width: 1},
			&ast.Declaration{Name: goodQ, Kind: ast.Reg, Width: 1},
		)
		out.Assigns = append(out.Assigns,
			&ast.ContinuousAssign{LHS: &ast.Identifier{Name: validWire}, RHS: bexp.Simplify(bexp.Or(
				&ast.Identifier{Name: avQ},
				bexp.And(bexp.Not(&ast.Identifier{Name: assignQ}), &ast.Identifier{Name: validQ})))},
			&ast.ContinuousAssign{LHS: &ast.Identifier{Name: propWire}, RHS: propExpr},
		)

		goodNext := nextGoodExpr(ctx.reset, avQ, aiQ, goodQ, propQ)
		body := &ast.Block{Stmts: []ast.Stmt{
			nb(avQ, &ast.Identifier{Name: avWire}),
			nb(aiQ, &ast.Identifier{Name: aiWire}),
			nb(assignQ, &ast.Identifier{Name: assignWire}),
			nb(validQ, &ast.Identifier{Name: validWire}),
			nb(propQ, &ast.Identifier{Name: propWire}),
			nb(goodQ, goodNext),
		}}
		out.Always = append(out.Always, &ast.Always{
			Senslist: []ast.SensItem{{Signal: clock.Signal, Edge: clock.Edge}},
			Body:     body,
		})

		checkCond := bexp.Simplify(bexp.And(&ast.Identifier{Name: assignQ},
			bexp.Not(bexp.Or(&ast.Identifier{Name: goodQ}, &ast.Identifier{Name: propQ}))))

		if !filtered[n.Term.Name] {
			lossBody := &ast.SystemCallStmt{Name: "display", Args: []ast.Expr{
				&ast.StringConst{Value: fmt.Sprintf("%%loss: %s at time %%0t", name)},
				&ast.Identifier{Name: "$time"},
			}}
			checkAlways := &ast.Always{
				Senslist: []ast.SensItem{{Signal: clock.Signal, Edge: clock.Edge}},
				Body:     &ast.IfStatement{Cond: checkCond, Then: lossBody},
			}
			out.Always = append(out.Always, checkAlways)
			out.Checks = append(out.Checks, &CheckSite{Slice: n, Clock: clock, Condition: checkCond})
		}
	}
	return out, nil
}

func nb(lhs string, rhs ast.Expr) *ast.Substitution {
	return &ast.Substitution{LHS: &ast.Identifier{Name: lhs}, RHS: rhs, Blocking: false}
}

// nextGoodExpr builds the good_q recurrence of spec §4.H Phase 5: "reset ->
// 1; else ai_q -> 1; else av_q -> 0; else good_q || prop_q".
func nextGoodExpr(reset, avQ, aiQ, goodQ, propQ string) ast.Expr {
	return &ast.Conditional{
		Cond: &ast.Identifier{Name: reset},
		Then: bexp.True,
		Else: &ast.Conditional{
			Cond: &ast.Identifier{Name: aiQ},
			Then: bexp.True,
			Else: &ast.Conditional{
				Cond: &ast.Identifier{Name: avQ},
				Then: bexp.False,
				Else: bexp.Or(&ast.Identifier{Name: goodQ}, &ast.Identifier{Name: propQ}),
			},
		},
	}
}

func (c *synthContext) nameOf(n *term.Slice) (string, error) {
	if name, ok := c.names[n.Key()]; ok {
		return name, nil
	}
	name, err := c.esc.Escape(n.Term.Name)
	if err != nil {
		return "", err
	}
	c.names[n.Key()] = name
	return name, nil
}

// validRef returns the Boolean expression referencing slice s's valid wire:
// the user-supplied source_valid wire for the source terminal, the constant
// 0 for a term outside the chain, or the derived __VALID__ wire otherwise
// (spec §4.H Phase 5: "For the source terminal, valid is defined as the
// user-supplied source_valid wire. For terms not in the chain, valid = 0.").
func (c *synthContext) validRef(s *term.Slice) ast.Expr {
	if s.Term == c.source.Term {
		return &ast.Identifier{Name: c.sourceValid}
	}
	if !c.chain.InChain(s.Key()) {
		return bexp.False
	}
	return FanValid(s, func(sib *term.Slice) ast.Expr {
		name, err := c.nameOf(sib)
		if err != nil {
			return bexp.False
		}
		suffix := instrument.SignalName(name, sib.Range.Present, sib.Range.Msb, sib.Range.Lsb, instrument.SuffixValid)
		return &ast.Identifier{Name: suffix}
	})
}

func (e *Engine) assignExprFor(n *term.Slice) ast.Expr {
	return dataflow.Assign(n, e.Table.Bindings(n.Term.Name))
}

func (e *Engine) avExprFor(ctx *synthContext, n *term.Slice) ast.Expr {
	acc := bexp.False
	for _, edge := range ctx.g.reverse[n.Key()] {
		pathExpr := dataflow.Expr(edge.Path)
		acc = bexp.Or(acc, bexp.And(pathExpr, ctx.validRef(edge.Src)))
	}
	return acc
}

// propExprFor implements prop(n) = OR over forward edges of (path condition
// AND-gated with a bounds check on the destination's array index, when it
// uses one) (spec §4.H Phase 5 table).
func (e *Engine) propExprFor(ctx *synthContext, n *term.Slice) ast.Expr {
	acc := bexp.False
	for _, edge := range ctx.g.forward[n.Key()] {
		cond := dataflow.Expr(edge.Path)
		if edge.Dst.Ptr.Present && edge.Dst.Term.Dim > 0 {
			cond = bexp.And(cond, boundsCheck(edge.Dst))
		}
		acc = bexp.Or(acc, cond)
	}
	return acc
}

func boundsCheck(dst *term.Slice) ast.Expr {
	var idx ast.Expr
	if dst.Ptr.Const {
		idx = &ast.IntConst{Text: fmt.Sprintf("%d", dst.Ptr.Value), Width: 32, Value: int64(dst.Ptr.Value)}
	} else {
		idx = &ast.Identifier{Name: dst.Ptr.ExprText}
	}
	dim := &ast.IntConst{Text: fmt.Sprintf("%d", dst.Term.Dim), Width: 32, Value: int64(dst.Term.Dim)}
	return &ast.Compare{Op: ast.LessThan, Left: idx, Right: dim}
}

// clockOf returns the clock a DFF slice's registered or black-box-model
// binding is synchronous to; chain is accepted for symmetry with the other
// phase functions and to leave room for a future per-chain clock cache.
func (e *Engine) clockOf(_ *Chain, n *term.Slice) term.Clock {
	for _, b := range e.Table.Bindings(n.Term.Name) {
		if b.Clock.Signal != "" {
			return b.Clock
		}
	}
	return term.Clock{}
}
