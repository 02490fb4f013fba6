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

	"github.com/spf13/cobra"
)

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate <module.wasm>",
		Short: "Translate a WebAssembly binary to threaded bytecode and report its exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mod, err := loadModule(args[0], args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), green(fmt.Sprintf("translated %q: istream [%d, %d)", mod.Name, mod.IstreamStart, mod.IstreamEnd)))
			for _, e := range mod.Exports {
				fmt.Fprintf(cmd.OutOrStdout(), "  export %-20s %-8s index=%d\n", e.Name, e.Kind, e.Index)
			}
			return nil
		},
	}
}
