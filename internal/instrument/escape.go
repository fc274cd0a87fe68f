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

// Package instrument implements the instrumentation helpers of spec.md §4.J:
// deterministic, invertible identifier escaping with a hash-based fallback
// for long names, the cycle counter register, and SignalTap II / ILA IP
// instantiation helpers.
package instrument

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// maxEscapedLength is the threshold past which an escaped name is replaced
// by a hash-derived shadow name (spec §4.J: "When escaped names exceed 128
// chars").
const maxEscapedLength = 128

var replacer = strings.NewReplacer(
	".", "__DOT__",
	"[", "__BRA__",
	"]", "__KET__",
	":", "__03A__",
)

// Escaper performs deterministic name escaping and tracks a per-module set
// of already-chosen shadow names, to detect hash collisions (spec §9:
// "Name collisions").
type Escaper struct {
	shadows map[string]string // hash shadow name -> original source name
}

// NewEscaper constructs an empty escaper for one module.
func NewEscaper() *Escaper {
	return &Escaper{shadows: make(map[string]string)}
}

// CollisionError reports that two distinct names hashed to the same shadow
// name (spec §9: "raise NameCollision ... rather than silently overwrite").
type CollisionError struct {
	Shadow     string
	First, Now string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("NameCollision: %q and %q both hash to %q", e.First, e.Now, e.Shadow)
}

// Escape renders name using the universally-invertible substitution table
// (source dots -> __DOT__, brackets -> __BRA__/__KET__, etc). If the result
// would exceed maxEscapedLength, a 64-bit hash-derived shadow name is used
// instead; a hash collision within the module returns a *CollisionError.
func (e *Escaper) Escape(name string) (string, error) {
	escaped := replacer.Replace(name)
	if len(escaped) <= maxEscapedLength {
		return escaped, nil
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	shadow := fmt.Sprintf("__HASH__%016x", h.Sum64())
	if prior, ok := e.shadows[shadow]; ok && prior != name {
		return "", &CollisionError{Shadow: shadow, First: prior, Now: name}
	}
	e.shadows[shadow] = name
	return shadow, nil
}
