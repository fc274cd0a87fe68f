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

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// DFFMask is the per-bit write-kind classification the importer attaches to
// every term (spec §4.B, §9 "Bit-level classification propagation"): for each
// bit, whether it is known to be a DFF output (value bit set), known to be
// combinational (known bit set, value bit clear), or unresolved (known bit
// clear). Classification is monotonic: once a bit is known, merging in a new
// observation may only confirm it, never flip or unlearn it.
type DFFMask struct {
	value *bitset.BitSet
	known *bitset.BitSet
}

// NewDFFMask constructs a mask with every bit unresolved, sized for a term of
// the given width.
func NewDFFMask(width uint) *DFFMask {
	return &DFFMask{
		value: bitset.New(width),
		known: bitset.New(width),
	}
}

// Set records bit i as known, with the given DFF/combinational value.
func (m *DFFMask) Set(i uint, isDFF bool) {
	m.known.Set(i)
	if isDFF {
		m.value.Set(i)
	} else {
		m.value.Clear(i)
	}
}

// IsDFF reports whether bit i is classified (known) as a DFF output.
func (m *DFFMask) IsDFF(i uint) bool {
	return m.known.Test(i) && m.value.Test(i)
}

// IsKnown reports whether bit i has been classified at all.
func (m *DFFMask) IsKnown(i uint) bool {
	return m.known.Test(i)
}

// Merge folds in another observation of the same bits. It returns an error
// (InconsistentClassification, spec §7) if a bit known in both masks
// disagrees on its value; this is a fatal, not a recovered, condition because
// it means the importer's input was ill-formed.
func (m *DFFMask) Merge(other *DFFMask) error {
	both := m.known.Clone().Intersection(other.known)
	conflict := m.value.Clone().SymmetricDifference(other.value).Intersection(both)
	if conflict.Any() {
		i, _ := conflict.NextSet(0)
		return fmt.Errorf("InconsistentClassification: bit %d reclassified", i)
	}
	m.value.InPlaceUnion(other.value.Clone().Intersection(other.known))
	m.known.InPlaceUnion(other.known)
	return nil
}

// AnyDFF reports whether any bit of this mask is classified as a DFF output.
func (m *DFFMask) AnyDFF() bool {
	return m.value.Clone().Intersection(m.known).Any()
}
