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
	"fmt"
	"os"

	"github.com/efeslab/veripass/internal/importer"
	"github.com/efeslab/veripass/internal/memmodel"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] file...",
	Short: "print the imported AST and term table as s-expressions.",
	Run:   runDebug,
}

func init() {
	debugCmd.Flags().Bool("terms", false, "also print every declared term")
}

func runDebug(cmd *cobra.Command, args []string) {
	applyVerbosity(cmd)
	if len(args) == 0 {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	printTerms := GetFlag(cmd, "terms")

	for _, f := range args {
		data, err := os.ReadFile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		module, table, err := importer.Import(f, string(data), memmodel.Default())
		if err != nil {
			reportSyntaxError(err)
			os.Exit(1)
		}
		fmt.Println(module.Lisp())
		for _, item := range module.Items {
			fmt.Println("  " + item.Lisp())
		}
		if printTerms {
			for _, t := range table.Terms() {
				fmt.Printf("  term %s: width=%d dim=%d kind=%v\n", t.Name, t.Width, t.Dim, t.Kind)
			}
		}
	}
}
