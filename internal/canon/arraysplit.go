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
package canon

import (
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/pass"
	"github.com/efeslab/veripass/internal/term"
)

// SplitEntryName is the name a constant array entry k of term "name" is given
// once ArraySplit has replaced it with independent scalars. Phase 6's
// fan-out wires (internal/flowguard.FanOut) use the same "__ENTRYk__" suffix
// for the non-constant case, so the two schemes never collide.
func SplitEntryName(name string, k uint) string {
	return fmt.Sprintf("%s__ENTRY%d__", name, k)
}

// ArraySplit is spec.md §4.E: an array term every one of whose accesses uses
// a compile-time-constant index is replaced by Dim independent scalar terms,
// simplifying every downstream pass (FlowGuard never has to reason about
// array aliasing for that term). Arrays with even one variable-index access
// are left alone; Phase 6 of the FlowGuard engine handles those directly.
type ArraySplit struct{}

// Name implements pass.Pass.
func (ArraySplit) Name() string { return "array-split" }

// Run implements pass.Pass.
func (ArraySplit) Run(ctx *pass.Context, m *ast.Module) error {
	arrays := make(map[string]*ast.Declaration)
	for _, d := range m.Declarations() {
		if d.Dim > 0 {
			arrays[d.Name] = d
		}
	}
	if len(arrays) == 0 {
		return nil
	}

	splittable := make(map[string]bool, len(arrays))
	for name := range arrays {
		splittable[name] = true
	}
	walkModule(m, func(e ast.Expr) {
		ptr, ok := e.(*ast.Pointer)
		if !ok {
			return
		}
		id, ok := ptr.Arg.(*ast.Identifier)
		if !ok || !splittable[id.Name] {
			return
		}
		if _, ok := ptr.Index.(*ast.IntConst); !ok {
			splittable[id.Name] = false
		}
	})

	for name, decl := range arrays {
		if !splittable[name] {
			continue
		}
		splitArray(ctx, m, decl)
	}
	return nil
}

func splitArray(ctx *pass.Context, m *ast.Module, decl *ast.Declaration) {
	for i, item := range m.Items {
		if d, ok := item.(*ast.Declaration); ok && d == decl {
			replacement := make([]ast.Stmt, 0, decl.Dim)
			for k := uint(0); k < decl.Dim; k++ {
				entry := &ast.Declaration{
					Name: SplitEntryName(decl.Name, k), Kind: decl.Kind,
					Width: decl.Width, Signed: decl.Signed,
				}
				replacement = append(replacement, entry)
				ctx.Declare(&term.Term{Name: entry.Name, Width: entry.Width, Signed: entry.Signed, Kind: entry.Kind})
			}
			m.Items = append(m.Items[:i], append(replacement, m.Items[i+1:]...)...)
			break
		}
	}

	mapModule(m, func(e ast.Expr) ast.Expr {
		ptr, ok := e.(*ast.Pointer)
		if !ok {
			return e
		}
		id, ok := ptr.Arg.(*ast.Identifier)
		if !ok || id.Name != decl.Name {
			return e
		}
		c, ok := ptr.Index.(*ast.IntConst)
		if !ok {
			return e
		}
		return &ast.Identifier{Name: SplitEntryName(decl.Name, uint(c.Value))}
	})
}
