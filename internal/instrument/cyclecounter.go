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
package instrument

import (
	"github.com/efeslab/veripass/internal/ast"
)

// DefaultCycleCounterWidth is the default width of the injected cycle
// counter register (spec §4.J).
const DefaultCycleCounterWidth = 64

// CycleCounter builds the reset-cleared register and its incrementing
// always-block, clocked on the most-frequent clock among instrumented
// always-blocks (spec §4.J). The caller determines that clock by tallying
// clock usage across the always-blocks FlowGuard touched.
func CycleCounter(name string, width uint, clock string, edge ast.Edge, reset string) (*ast.Declaration, *ast.Always) {
	decl := &ast.Declaration{Name: name, Kind: ast.Reg, Width: width}
	inc := &ast.Binary{Op: ast.Plus, Left: &ast.Identifier{Name: name}, Right: &ast.IntConst{Text: "1", Width: width, Value: 1}}
	body := &ast.IfStatement{
		Cond: &ast.Identifier{Name: reset},
		Then: &ast.Substitution{LHS: &ast.Identifier{Name: name}, RHS: &ast.IntConst{Text: "0", Width: width, Value: 0}},
		Else: &ast.Substitution{LHS: &ast.Identifier{Name: name}, RHS: inc},
	}
	always := &ast.Always{
		Senslist: []ast.SensItem{{Signal: clock, Edge: edge}},
		Body:     body,
	}
	return decl, always
}

// MostFrequentClock tallies clock usage across a set of (clock, edge) pairs
// and returns the most common one, breaking ties by first occurrence.
func MostFrequentClock(clocks []struct {
	Signal string
	Edge   ast.Edge
}) (string, ast.Edge) {
	counts := make(map[string]int)
	edges := make(map[string]ast.Edge)
	order := make([]string, 0)
	for _, c := range clocks {
		if c.Signal == "" {
			continue
		}
		if _, ok := counts[c.Signal]; !ok {
			order = append(order, c.Signal)
			edges[c.Signal] = c.Edge
		}
		counts[c.Signal]++
	}
	best := ""
	bestN := 0
	for _, name := range order {
		if counts[name] > bestN {
			best, bestN = name, counts[name]
		}
	}
	return best, edges[best]
}
