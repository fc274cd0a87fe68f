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

// Package pass implements the ordered pass pipeline of spec.md §4.C / §9: a
// typed context threaded explicitly between passes (replacing a global
// mutable "pass state bag"), with a synchronous variable-creation event
// channel that listener passes subscribe to.
package pass

import (
	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/term"
	log "github.com/sirupsen/logrus"
)

// VariableListener is called synchronously whenever any pass declares a new
// term, before the declaring pass's node visitor returns (spec §5: "a
// variable created by one pass is visible to every listening pass before the
// creating pass returns").
type VariableListener func(*term.Term)

// Context is the shared, typed state threaded between passes: the term
// table and the variable-creation event bus. It replaces the generic "pass
// state bag" of the original design (spec §9).
type Context struct {
	Table     *term.Table
	listeners []VariableListener
}

// NewContext constructs a pass context over an existing term table.
func NewContext(table *term.Table) *Context {
	return &Context{Table: table}
}

// Subscribe registers a listener for new-variable events. Passes that need
// their own caches (name->declaration maps, width caches) kept consistent as
// other passes introduce new terms register here.
func (c *Context) Subscribe(l VariableListener) {
	c.listeners = append(c.listeners, l)
}

// Declare registers a new term in the table and synchronously notifies every
// listener before returning.
func (c *Context) Declare(t *term.Term) {
	c.Table.Declare(t)
	for _, l := range c.listeners {
		l(t)
	}
}

// Pass is one stage of the pipeline. Run may rewrite m.Items and declare new
// terms via ctx; passes must not reorder siblings except where the pass is
// explicitly documented to do so (spec §4.C).
type Pass interface {
	// Name identifies the pass for logging and pipeline debugging.
	Name() string
	// Run executes this pass over the given module.
	Run(ctx *Context, m *ast.Module) error
}

// Pipeline is an ordered list of passes, run in registration order (spec
// §5: "passes run in registration order").
type Pipeline struct {
	passes []Pass
}

// NewPipeline constructs a pipeline from the given passes, in order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Run executes every pass over m in order, stopping at the first error.
func (p *Pipeline) Run(ctx *Context, m *ast.Module) error {
	for _, ps := range p.passes {
		log.WithField("pass", ps.Name()).Debug("running pass")
		if err := ps.Run(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
