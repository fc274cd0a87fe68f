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

// Package cmd wires the cobra CLI surface of spec.md §6 ("External
// interfaces") onto internal/config, internal/importer, internal/canon,
// internal/flowguard and internal/emitter.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is filled in at build time via -ldflags, mirroring how the teacher
// stack reports its own version (unset when built with a plain "go build").
var Version string

var rootCmd = &cobra.Command{
	Use:   "veripass",
	Short: "A source-to-source instrumentation compiler for synthesizable Verilog.",
	Long: "veripass augments a synthesizable Verilog/SystemVerilog design with FlowGuard, a data-flow " +
		"liveness checker that reports at runtime whether a chosen sink signal ever lost the value it " +
		"inherited from a chosen source.",
}

// Execute adds every subcommand to the root command and runs it. Called once
// from cmd/veripass/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.AddCommand(instrumentCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(checkCmd)
}

// applyVerbosity raises logrus's level when -v/--verbose was given.
func applyVerbosity(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		logSetDebug()
	}
}
