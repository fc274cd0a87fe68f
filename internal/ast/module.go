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
package ast

import "fmt"

// DeclKind identifies the kind of a declared term (spec §3, Term.kind).
type DeclKind uint8

// Supported declaration kinds.
const (
	Input DeclKind = iota
	Output
	Wire
	Reg
	Parameter
	Integer
	Time
)

// Declaration is a module-level (or generated) signal declaration. Dim is 0
// for a scalar, or the array length for a one-dimensional array (spec §3:
// "an array is one-dimensional after elaboration"). Annotation carries a
// directive comment that must round-trip through re-emission and re-import.
type Declaration struct {
	Name       string
	Kind       DeclKind
	Width      uint
	Dim        uint
	Signed     bool
	Annotation string
}

func (*Declaration) isStmt() {}

// Lisp renders this node as an s-expression.
func (d *Declaration) Lisp() string {
	return fmt.Sprintf("(decl %s %s %d %d)", kindName(d.Kind), d.Name, d.Width, d.Dim)
}

func kindName(k DeclKind) string {
	names := map[DeclKind]string{
		Input: "input", Output: "output", Wire: "wire", Reg: "reg",
		Parameter: "parameter", Integer: "integer", Time: "time",
	}
	return names[k]
}

// Instance is a single module instantiation, with parameter overrides and
// port connections by name.
type Instance struct {
	Module string
	Name   string
	Params map[string]Expr
	Ports  map[string]Expr
}

func (*Instance) isStmt() {}

// Lisp renders this node as an s-expression.
func (i *Instance) Lisp() string {
	return fmt.Sprintf("(instance %s %s)", i.Module, i.Name)
}

// InstanceList groups one or more instances of the same module, mirroring how
// Verilog allows a single "modname #(...) a(...), b(...);" statement.
type InstanceList struct {
	Module    string
	Instances []*Instance
}

func (*InstanceList) isStmt() {}

// Lisp renders this node as an s-expression.
func (l *InstanceList) Lisp() string {
	return fmt.Sprintf("(instance-list %s %d)", l.Module, len(l.Instances))
}

// Initial represents an initial block.
type Initial struct {
	Body Stmt
}

func (*Initial) isStmt() {}

// Lisp renders this node as an s-expression.
func (i *Initial) Lisp() string {
	return "(initial " + i.Body.Lisp() + ")"
}

// Module is the root of an elaborated design: a flat list of declarations,
// continuous assignments, always-blocks and instances. FlowGuard appends new
// declarations, continuous assignments and always-blocks to Items; it never
// removes or mutates an existing item (spec §3, "Lifecycle").
type Module struct {
	Name  string
	Ports []string
	Items []Stmt
}

// Lisp renders this node as an s-expression.
func (m *Module) Lisp() string {
	return fmt.Sprintf("(module %s %d items)", m.Name, len(m.Items))
}

// AddDeclaration appends a new declaration to the module.
func (m *Module) AddDeclaration(d *Declaration) {
	m.Items = append(m.Items, d)
}

// AddAssign appends a new continuous assignment to the module.
func (m *Module) AddAssign(a *ContinuousAssign) {
	m.Items = append(m.Items, a)
}

// AddAlways appends a new always-block to the module.
func (m *Module) AddAlways(a *Always) {
	m.Items = append(m.Items, a)
}

// Declarations returns every Declaration item in the module, in item order.
func (m *Module) Declarations() []*Declaration {
	var out []*Declaration
	for _, it := range m.Items {
		if d, ok := it.(*Declaration); ok {
			out = append(out, d)
		}
	}
	return out
}

// Always returns every Always item in the module, in item order.
func (m *Module) Always() []*Always {
	var out []*Always
	for _, it := range m.Items {
		if a, ok := it.(*Always); ok {
			out = append(out, a)
		}
	}
	return out
}

// Assigns returns every ContinuousAssign item in the module, in item order.
func (m *Module) Assigns() []*ContinuousAssign {
	var out []*ContinuousAssign
	for _, it := range m.Items {
		if a, ok := it.(*ContinuousAssign); ok {
			out = append(out, a)
		}
	}
	return out
}

// Instances returns every instance across both Instance and InstanceList
// items, in item order.
func (m *Module) Instances() []*Instance {
	var out []*Instance
	for _, it := range m.Items {
		switch v := it.(type) {
		case *Instance:
			out = append(out, v)
		case *InstanceList:
			out = append(out, v.Instances...)
		}
	}
	return out
}
