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
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/efeslab/veripass/internal/ast"
	"github.com/efeslab/veripass/internal/canon"
	"github.com/efeslab/veripass/internal/config"
	"github.com/efeslab/veripass/internal/flowguard"
	"github.com/efeslab/veripass/internal/importer"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/pass"
	"github.com/efeslab/veripass/internal/term"
	"github.com/spf13/cobra"
)

// checkCmd runs every instrumentation phase without writing an output file:
// a dry run that reports exit code 0 only if the whole pipeline — import,
// canonicalization, FlowGuard's seven phases — completes without a fatal
// error (spec §6, "Exit codes"). It still exits 0 on a non-fatal
// ConfigError (sink unreachable), per spec §7's recovery policy.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "validate that a design can be instrumented, without writing output.",
	Run:   runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.String("top", "", "top module name (required)")
	f.String("source", "", "fully-qualified source terminal name (required)")
	f.String("source-valid", "", "fully-qualified source-valid terminal name (required)")
	f.String("sink", "", "fully-qualified sink terminal name (required)")
	f.String("reset", "", "fully-qualified reset terminal name (required)")
	f.StringArray("files", nil, "source file to import (repeatable)")
	f.String("desc-file", "", "file listing one source file per line, instead of --files")
}

func runCheck(cmd *cobra.Command, _ []string) {
	applyVerbosity(cmd)

	cfg := &config.Config{
		Top: GetString(cmd, "top"), Source: GetString(cmd, "source"),
		SourceValid: GetString(cmd, "source-valid"), Sink: GetString(cmd, "sink"),
		Reset: GetString(cmd, "reset"), Files: GetStringArray(cmd, "files"),
		DescFile: GetString(cmd, "desc-file"),
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	files, err := cfg.ResolveFiles()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	models := memmodel.Default()
	modules := make(map[string]*ast.Module)
	tables := make(map[string]*term.Table)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		module, table, err := importer.Import(f, string(data), models)
		if err != nil {
			reportSyntaxError(err)
			os.Exit(1)
		}
		modules[module.Name] = module
		tables[module.Name] = table
	}

	module, ok := modules[cfg.Top]
	if !ok {
		fmt.Printf("ConfigError: top module %q not found among imported files\n", cfg.Top)
		os.Exit(2)
	}
	table := tables[cfg.Top]

	pipeline := pass.NewPipeline(canon.ArraySplit{}, canon.RegPromote{}, canon.PartSelectPromote{})
	if err := pipeline.Run(pass.NewContext(table), module); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	sourceTerm, ok := table.Lookup(cfg.Source)
	if !ok {
		fmt.Printf("ConfigError: source terminal %q not found\n", cfg.Source)
		os.Exit(2)
	}
	sinkTerm, ok := table.Lookup(cfg.Sink)
	if !ok {
		fmt.Printf("ConfigError: sink terminal %q not found\n", cfg.Sink)
		os.Exit(2)
	}

	engine := flowguard.NewEngine(table, models)
	req := flowguard.Request{Source: term.NewSlice(sourceTerm), SourceValid: cfg.SourceValid, Sink: sinkTerm, Reset: cfg.Reset}
	if _, err := engine.Run(module, req); err != nil && !errors.Is(err, flowguard.ErrSinkUnreachable) {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("ok")
}
