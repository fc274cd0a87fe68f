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
	"fmt"

	"github.com/efeslab/veripass/internal/ast"
)

// DisplayRecord is one line of the <out>.displayinfo.txt side file: a
// condition name paired with the original $display format string (spec §6).
type DisplayRecord struct {
	CondName string
	Format   string
}

// WidthRecord is one line of the <out>.widthinfo.txt side file: a recorded
// variable name and its width (spec §6).
type WidthRecord struct {
	Name  string
	Width uint
}

// ILAVendor identifies which vendor-specific capture IP to instantiate.
type ILAVendor uint8

// Supported capture IP vendors.
const (
	SignalTapII ILAVendor = iota
	XilinxILA
)

// CaptureInstance builds a vendor-specific IP instance whose data port is the
// concatenation of condition wires and captured arguments, in declaration
// order (spec §4.J). The returned width is the number of concatenated
// expressions (one per condition and argument), not the sum of their bit
// widths.
func CaptureInstance(vendor ILAVendor, instName string, conds []ast.Expr, args []ast.Expr) (*ast.Instance, uint) {
	module := "scfifo_signaltap"
	if vendor == XilinxILA {
		module = "ila_0"
	}
	dataBits := append(append([]ast.Expr{}, conds...), args...)
	data := &ast.Concat{Args: dataBits}
	width := uint(len(dataBits)) // one per expression, not the summed bit width
	inst := &ast.Instance{
		Module: module,
		Name:   instName,
		Params: map[string]ast.Expr{},
		Ports: map[string]ast.Expr{
			"probe0": data,
		},
	}
	return inst, width
}

// FormatDisplayInfo renders the displayinfo.txt side file contents.
func FormatDisplayInfo(records []DisplayRecord) string {
	out := ""
	for _, r := range records {
		out += fmt.Sprintf("%s %s\n", r.CondName, r.Format)
	}
	return out
}

// FormatWidthInfo renders the widthinfo.txt side file contents.
func FormatWidthInfo(records []WidthRecord) string {
	out := ""
	for _, r := range records {
		out += fmt.Sprintf("%s %d\n", r.Name, r.Width)
	}
	return out
}
