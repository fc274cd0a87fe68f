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

// Package dataflow implements the precise bit-slice dependency visitor
// (spec.md §4.G) and the unassigned-condition visitor (§4.H Phase 4) over
// the binding trees built by internal/term and internal/importer.
package dataflow

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/bexp"
	"github.com/efeslab/veripass/internal/term"
)

// Append adds a literal to a path, returning a new slice (the caller's path
// is never mutated in place, since the same prefix is shared across sibling
// branches of a traversal).
func Append(p term.Path, cond ast.Expr, polarity bool) term.Path {
	out := make(term.Path, len(p)+1)
	copy(out, p)
	out[len(p)] = term.Literal{Cond: cond, Polarity: polarity}
	return out
}

// Normalize deduplicates and checks a path for contradiction. If the same
// condition node appears with both polarities, the path is contradictory
// (spec §3: "the list is a contradiction (invalid) and the containing path
// contributes nothing") and ok=false is returned.
func Normalize(p term.Path) (term.Path, bool) {
	var out term.Path
	for _, lit := range p {
		dup := false
		for _, o := range out {
			if bexp.Equal(lit.Cond, o.Cond) {
				if lit.Polarity != o.Polarity {
					return nil, false
				}
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, lit)
		}
	}
	return out, true
}

// Equal reports whether two (already-normalized) paths are the same
// conjunction of literals, independent of order.
func Equal(a, b term.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for _, la := range a {
		found := false
		for _, lb := range b {
			if la.Polarity == lb.Polarity && bexp.Equal(la.Cond, lb.Cond) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Merge concatenates two paths and normalizes the result.
func Merge(a, b term.Path) (term.Path, bool) {
	out := make(term.Path, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return Normalize(out)
}

// Expr converts a path into its conjunction as a Boolean expression, negating
// literals with Polarity==false.
func Expr(p term.Path) ast.Expr {
	acc := bexp.True
	for _, lit := range p {
		c := lit.Cond
		if !lit.Polarity {
			c = bexp.Not(c)
		}
		acc = bexp.And(acc, c)
	}
	return acc
}
