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
package term

import "fmt"

// Table is the side table the importer builds alongside the AST (spec §4.B):
// a name->term map and, for each term, the list of bindings that drive it.
type Table struct {
	terms    map[string]*Term
	bindings map[string][]*Binding
	masks    map[string]*DFFMask
	order    []string
}

// NewTable constructs an empty term table.
func NewTable() *Table {
	return &Table{
		terms:    make(map[string]*Term),
		bindings: make(map[string][]*Binding),
		masks:    make(map[string]*DFFMask),
	}
}

// ClassifyBits merges a per-bit DFF/combinational observation into name's
// mask (spec §9, "Bit-level classification propagation"), allocating the
// mask on first use. It returns an "InconsistentClassification" error (fatal,
// spec §7) if this observation disagrees with one already recorded.
func (t *Table) ClassifyBits(name string, width uint, msb, lsb int, isDFF bool) error {
	mask, ok := t.masks[name]
	if !ok {
		mask = NewDFFMask(width)
		t.masks[name] = mask
	}
	observed := NewDFFMask(width)
	for i := lsb; i <= msb; i++ {
		observed.Set(uint(i), isDFF)
	}
	return mask.Merge(observed)
}

// Mask returns the accumulated DFF classification for a term, or nil if it
// was never observed as either side of a binding.
func (t *Table) Mask(name string) *DFFMask {
	return t.masks[name]
}

// Declare registers a new term. It panics if the name is already declared,
// since the importer is expected to de-duplicate declarations itself.
func (t *Table) Declare(term *Term) {
	if _, ok := t.terms[term.Name]; ok {
		panic(fmt.Sprintf("term already declared: %s", term.Name))
	}
	t.terms[term.Name] = term
	t.order = append(t.order, term.Name)
}

// Lookup resolves a name to its term, or returns ok=false (UnresolvedTerm,
// spec §7).
func (t *Table) Lookup(name string) (*Term, bool) {
	term, ok := t.terms[name]
	return term, ok
}

// MustLookup resolves a name to its term, panicking on failure. Used once
// resolution has already been checked by the importer.
func (t *Table) MustLookup(name string) *Term {
	term, ok := t.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("unresolved term: %s", name))
	}
	return term
}

// AddBinding records a new binding driving its destination term.
func (t *Table) AddBinding(b *Binding) {
	name := b.Dest.Name
	t.bindings[name] = append(t.bindings[name], b)
}

// Bindings returns every binding recorded against the given term, in
// insertion order.
func (t *Table) Bindings(name string) []*Binding {
	return t.bindings[name]
}

// Terms returns every declared term, in declaration order.
func (t *Table) Terms() []*Term {
	out := make([]*Term, len(t.order))
	for i, n := range t.order {
		out[i] = t.terms[n]
	}
	return out
}
