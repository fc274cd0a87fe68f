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
	"github.com/efeslab/veripass/internal/emitter"
	"github.com/efeslab/veripass/internal/flowguard"
	"github.com/efeslab/veripass/internal/importer"
	"github.com/efeslab/veripass/internal/instrument"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/efeslab/veripass/internal/pass"
	"github.com/efeslab/veripass/internal/source"
	"github.com/efeslab/veripass/internal/term"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "Instrument a design with FlowGuard data-flow liveness checking.",
	Run:   runInstrument,
}

func init() {
	f := instrumentCmd.Flags()
	f.String("top", "", "top module name (required)")
	f.String("source", "", "fully-qualified source terminal name (required)")
	f.String("source-valid", "", "fully-qualified source-valid terminal name (required)")
	f.String("sink", "", "fully-qualified sink terminal name (required)")
	f.String("reset", "", "fully-qualified reset terminal name (required)")
	f.StringArray("files", nil, "source file to import (repeatable)")
	f.String("desc-file", "", "file listing one source file per line, instead of --files")
	f.String("filter-file", "", "file listing terminal names whose loss should not be reported")
	f.String("out", "", "output file path (required)")
	f.Bool("record", false, "also emit <out>.displayinfo.txt and <out>.widthinfo.txt")
}

func runInstrument(cmd *cobra.Command, _ []string) {
	applyVerbosity(cmd)

	cfg := &config.Config{
		Top: GetString(cmd, "top"), Source: GetString(cmd, "source"),
		SourceValid: GetString(cmd, "source-valid"), Sink: GetString(cmd, "sink"),
		Reset: GetString(cmd, "reset"), Files: GetStringArray(cmd, "files"),
		DescFile: GetString(cmd, "desc-file"), FilterFile: GetString(cmd, "filter-file"),
		OutputPath: GetString(cmd, "out"), Record: GetFlag(cmd, "record"),
	}
	if cfg.OutputPath == "" {
		fmt.Println("ConfigError: --out is required")
		os.Exit(2)
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
	filtered, err := config.LoadFilter(cfg.FilterFile)
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
	req := flowguard.Request{
		Source: term.NewSlice(sourceTerm), SourceValid: cfg.SourceValid,
		Sink: sinkTerm, Reset: cfg.Reset, Filtered: filtered,
	}
	synth, err := engine.Run(module, req)
	if err != nil {
		if errors.Is(err, flowguard.ErrSinkUnreachable) {
			log.Warn(err)
		} else {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(cfg.OutputPath, []byte(emitter.Emit(module)), 0o644); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if cfg.Record && synth != nil {
		writeRecordFiles(cfg.OutputPath, module, synth)
	}
}

func reportSyntaxError(err error) {
	var se *source.SyntaxError
	if errors.As(err, &se) {
		fmt.Println(se.Error())
		return
	}
	fmt.Println(err)
}

func writeRecordFiles(outPath string, module *ast.Module, synth *flowguard.Synthesis) {
	display := make([]instrument.DisplayRecord, len(synth.Checks))
	for i, c := range synth.Checks {
		display[i] = instrument.DisplayRecord{
			CondName: fmt.Sprintf("%s@%s", c.Slice.String(), c.Clock.Signal),
			Format:   c.Condition.Lisp(),
		}
	}
	if err := os.WriteFile(outPath+".displayinfo.txt", []byte(instrument.FormatDisplayInfo(display)), 0o644); err != nil {
		fmt.Println(err)
	}

	decls := module.Declarations()
	widths := make([]instrument.WidthRecord, len(decls))
	for i, d := range decls {
		widths[i] = instrument.WidthRecord{Name: d.Name, Width: d.Width}
	}
	if err := os.WriteFile(outPath+".widthinfo.txt", []byte(instrument.FormatWidthInfo(widths)), 0o644); err != nil {
		fmt.Println(err)
	}
}
