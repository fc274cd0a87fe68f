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
	"testing"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/canon"
	"github.com/efeslab/veripass/internal/importer"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/pass"
	"github.com/efeslab/veripass/internal/term"
	"github.com/stretchr/testify/require"
)

// importAndCanonicalize runs the textual importer followed by the three
// canonicalization passes the CLI's instrument command runs before handing
// the module to the FlowGuard engine (internal/cmd.runInstrument).
func importAndCanonicalize(t *testing.T, src string) (*ast.Module, *term.Table) {
	t.Helper()
	models := memmodel.Default()
	module, table, err := importer.Import("test.v", src, models)
	require.NoError(t, err)

	pipeline := pass.NewPipeline(canon.ArraySplit{}, canon.RegPromote{}, canon.PartSelectPromote{})
	require.NoError(t, pipeline.Run(pass.NewContext(table), module))
	return module, table
}

func findAssign(t *testing.T, assigns []*ast.ContinuousAssign, lhsName string) ast.Expr {
	t.Helper()
	for _, a := range assigns {
		if id, ok := a.LHS.(*ast.Identifier); ok && id.Name == lhsName {
			return a.RHS
		}
	}
	t.Fatalf("no synthesized assign found for %q", lhsName)
	return nil
}

// Test_FlowGuard_S1WirePipeline is spec.md §8 S1: a purely combinational
// source-to-sink chain with no register in between, so no DFF slice and no
// liveness check is ever synthesized.
func Test_FlowGuard_S1WirePipeline(t *testing.T) {
	src := `module top in out source_valid
input 1 in
input 1 source_valid
output 1 out
wire 1 mid
assign mid = in
assign out = mid
endmodule
`
	module, table := importAndCanonicalize(t, src)

	sourceTerm, ok := table.Lookup("in")
	require.True(t, ok)
	sinkTerm, ok := table.Lookup("out")
	require.True(t, ok)

	engine := NewEngine(table, memmodel.Default())
	req := Request{Source: term.NewSlice(sourceTerm), SourceValid: "source_valid", Sink: sinkTerm, Reset: "rst"}
	synth, err := engine.Run(module, req)
	require.NoError(t, err)
	require.NotNil(t, synth)

	require.Empty(t, synth.Checks, "a wire-only chain never has a DFF slice, so no loss check fires")

	midAV := instrument.SignalName("mid", true, 0, 0, instrument.SuffixAV)
	midValid := instrument.SignalName("mid", true, 0, 0, instrument.SuffixValid)
	outAV := instrument.SignalName("out", true, 0, 0, instrument.SuffixAV)

	require.Equal(t, &ast.Identifier{Name: "source_valid"}, findAssign(t, synth.Assigns, midAV),
		"mid's assign-valid signal should reduce to the source_valid wire directly (spec S1)")
	require.Equal(t, &ast.Identifier{Name: midAV}, findAssign(t, synth.Assigns, midValid),
		"mid is combinational, so valid(mid) is wired straight from av(mid)")
	require.Equal(t, &ast.Identifier{Name: midValid}, findAssign(t, synth.Assigns, outAV),
		"out's assign-valid signal reads mid's valid wire one hop further down the chain (spec S1: valid(out)==valid(mid))")
}

// Test_FlowGuard_S2OneRegister is spec.md §8 S2: a single register between
// source and sink. r is the DFF slice, its assign condition is unconditional
// (bexp.True), and exactly one loss check is synthesized for it.
func Test_FlowGuard_S2OneRegister(t *testing.T) {
	src := `module top in out clk rst source_valid
input 1 in
input 1 source_valid
input 1 clk
input 1 rst
output 1 out
reg 1 r
always posedge clk
r <= in
endalways
assign out = r
endmodule
`
	module, table := importAndCanonicalize(t, src)

	sourceTerm, ok := table.Lookup("in")
	require.True(t, ok)
	sinkTerm, ok := table.Lookup("out")
	require.True(t, ok)

	engine := NewEngine(table, memmodel.Default())
	req := Request{Source: term.NewSlice(sourceTerm), SourceValid: "source_valid", Sink: sinkTerm, Reset: "rst"}
	synth, err := engine.Run(module, req)
	require.NoError(t, err)
	require.NotNil(t, synth)

	require.Len(t, synth.Checks, 1, "the one register on the chain gets exactly one loss check")
	require.Equal(t, "r", synth.Checks[0].Slice.Term.Name)
	require.Equal(t, "clk", synth.Checks[0].Clock.Signal)
	require.Equal(t, ast.Posedge, synth.Checks[0].Clock.Edge)

	rAssign := instrument.SignalName("r", true, 0, 0, instrument.SuffixAssign)
	assignExpr := findAssign(t, synth.Assigns, rAssign)
	require.True(t, bexp.IsTrue(assignExpr), "r is written unconditionally every cycle, so assign(r) is the constant 1")

	rAV := instrument.SignalName("r", true, 0, 0, instrument.SuffixAV)
	require.Equal(t, &ast.Identifier{Name: "source_valid"}, findAssign(t, synth.Assigns, rAV))

	// One clocked always-block updates r's *_q register bank plus good_q;
	// a second (checkAlways) guards the $display loss report (phase5.go).
	require.GreaterOrEqual(t, len(synth.Always), 2)
}

// Test_FlowGuard_S3ConditionalDrop is spec.md §8 S3: the same register, but
// written only when `en` holds. Unlike S2, assign(r) is conditioned on `en`
// rather than the constant 1 -- this is the static precondition for the
// loss scenario described in S3 (simulating the resulting Verilog to
// observe the check actually fire is outside this repo's scope, per
// spec.md §1's non-goals).
func Test_FlowGuard_S3ConditionalDrop(t *testing.T) {
	src := `module top in out clk rst en source_valid
input 1 in
input 1 source_valid
input 1 clk
input 1 rst
input 1 en
output 1 out
reg 1 r
always posedge clk
if (en) r <= in endif
endalways
assign out = r
endmodule
`
	module, table := importAndCanonicalize(t, src)

	sourceTerm, ok := table.Lookup("in")
	require.True(t, ok)
	sinkTerm, ok := table.Lookup("out")
	require.True(t, ok)

	engine := NewEngine(table, memmodel.Default())
	req := Request{Source: term.NewSlice(sourceTerm), SourceValid: "source_valid", Sink: sinkTerm, Reset: "rst"}
	synth, err := engine.Run(module, req)
	require.NoError(t, err)
	require.NotNil(t, synth)

	require.Len(t, synth.Checks, 1)

	rAssign := instrument.SignalName("r", true, 0, 0, instrument.SuffixAssign)
	assignExpr := findAssign(t, synth.Assigns, rAssign)
	require.Equal(t, &ast.Identifier{Name: "en"}, assignExpr,
		"r is only written while en holds, so assign(r) must be gated on en rather than always 1 (contrast with S2)")
}

// Test_FlowGuard_SinkUnreachable covers spec.md §7's ConfigError recovery
// policy: when the sink never depends on the source, Run reports
// ErrSinkUnreachable and leaves the module untouched rather than aborting.
func Test_FlowGuard_SinkUnreachable(t *testing.T) {
	src := `module top in out source_valid
input 1 in
input 1 source_valid
output 1 out
assign out = 1'b0
endmodule
`
	module, table := importAndCanonicalize(t, src)
	itemsBefore := len(module.Items)

	sourceTerm, ok := table.Lookup("in")
	require.True(t, ok)
	sinkTerm, ok := table.Lookup("out")
	require.True(t, ok)

	engine := NewEngine(table, memmodel.Default())
	req := Request{Source: term.NewSlice(sourceTerm), SourceValid: "source_valid", Sink: sinkTerm, Reset: "rst"}
	synth, err := engine.Run(module, req)
	require.ErrorIs(t, err, ErrSinkUnreachable)
	require.Nil(t, synth)
	require.Equal(t, itemsBefore, len(module.Items), "an unreachable sink must leave the module unmodified")
}
