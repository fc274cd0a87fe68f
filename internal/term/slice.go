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

// Slice is a "TargetEntry": the identity FlowGuard tracks through the
// propagation chain. Identity is exactly (Term, Range, Ptr) per spec §3; two
// non-identity hints, RdPtr and the sibling lists, are attached separately so
// they never participate in equality/hashing.
type Slice struct {
	Term  *Term
	Range Range
	Ptr   Index

	// RdPtr is the read-index expression text, set when a reader accesses an
	// array element whose writer index differs from this slice's own Ptr
	// (spec §3: "the read index expression when a reader accesses an array
	// element whose writer index is different").
	RdPtr string

	// RdSubling and WrSubling are singly-linked lists of companion slices
	// sharing this slice's term and bit range but differing in read/write
	// index, used to fan a slice out over every array entry when its index is
	// non-constant (spec §3).
	RdSubling *Slice
	WrSubling *Slice
}

// Key is the comparable identity of a Slice, suitable as a map key. Equality
// and hashing use exactly these five fields (spec §3).
type Key struct {
	Term     *Term
	Present  bool
	Msb, Lsb int
	Ptr      Index
}

// Key returns this slice's identity key.
func (s *Slice) Key() Key {
	return Key{s.Term, s.Range.Present, s.Range.Msb, s.Range.Lsb, s.Ptr}
}

// WeakKey returns a key that ignores Ptr, used by the reverse-map dedup rule
// for "slices whose read-index differs: equal when term+msb+lsb match,
// ignoring ptr" (spec §3).
func (s *Slice) WeakKey() Key {
	k := s.Key()
	k.Ptr = NoIndex
	return k
}

// NewSlice constructs a whole-term slice with no array index.
func NewSlice(t *Term) *Slice {
	return &Slice{Term: t}
}

// NewRangeSlice constructs a slice over the given bit-range of t.
func NewRangeSlice(t *Term, r Range) *Slice {
	return &Slice{Term: t, Range: r}
}

// String renders the slice for debug output.
func (s *Slice) String() string {
	name := s.Term.Name
	if s.Ptr.Present {
		name = fmt.Sprintf("%s[%s]", name, s.Ptr)
	}
	if s.Range.Present {
		name = fmt.Sprintf("%s[%d:%d]", name, s.Range.Msb, s.Range.Lsb)
	}
	return name
}

// Width returns the number of bits this slice covers.
func (s *Slice) Width() uint {
	return s.Range.Width(s.Term.Width)
}
