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
package pass

import (
	"errors"
	"testing"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
)

func Test_Context_01_DeclareNotifiesListeners(t *testing.T) {
	ctx := NewContext(term.NewTable())
	var seen []string
	ctx.Subscribe(func(tm *term.Term) { seen = append(seen, tm.Name) })
	ctx.Subscribe(func(tm *term.Term) { seen = append(seen, "again:"+tm.Name) })

	ctx.Declare(&term.Term{Name: "x", Width: 1})

	if len(seen) != 2 || seen[0] != "x" || seen[1] != "again:x" {
		t.Fatalf("listener notifications = %+v, want both listeners notified in order", seen)
	}
	if _, ok := ctx.Table.Lookup("x"); !ok {
		t.Fatalf("Declare should register the term in the table")
	}
}

type recordingPass struct {
	name string
	run  func(ctx *Context, m *ast.Module) error
	log  *[]string
}

func (p *recordingPass) Name() string { return p.name }
func (p *recordingPass) Run(ctx *Context, m *ast.Module) error {
	*p.log = append(*p.log, p.name)
	if p.run != nil {
		return p.run(ctx, m)
	}
	return nil
}

func Test_Pipeline_01_RunsInOrder(t *testing.T) {
	var log []string
	p1 := &recordingPass{name: "first", log: &log}
	p2 := &recordingPass{name: "second", log: &log}
	pipe := NewPipeline(p1, p2)

	ctx := NewContext(term.NewTable())
	m := &ast.Module{Name: "top"}
	if err := pipe.Run(ctx, m); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(log) != 2 || log[0] != "first" || log[1] != "second" {
		t.Fatalf("pass execution order = %+v, want [first second]", log)
	}
}

func Test_Pipeline_02_StopsAtFirstError(t *testing.T) {
	var log []string
	wantErr := errors.New("boom")
	p1 := &recordingPass{name: "first", log: &log, run: func(ctx *Context, m *ast.Module) error { return wantErr }}
	p2 := &recordingPass{name: "second", log: &log}
	pipe := NewPipeline(p1, p2)

	ctx := NewContext(term.NewTable())
	m := &ast.Module{Name: "top"}
	err := pipe.Run(ctx, m)
	if err != wantErr {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
	if len(log) != 1 || log[0] != "first" {
		t.Fatalf("pipeline should stop after the failing pass, ran = %+v", log)
	}
}
