// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziggy42/tbc/tbc"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "tbc",
		Short: "Translate and run WebAssembly modules as threaded bytecode",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				l, err := zap.NewDevelopment()
				if err == nil {
					tbc.SetLogger(l)
				}
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log translation and execution diagnostics")
	root.AddCommand(newTranslateCmd(), newRunCmd(), newDisasmCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}
