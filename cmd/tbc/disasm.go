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

	"github.com/ziggy42/tbc/tbc"
)

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <module.wasm>",
		Short: "Translate a module and print its threaded bytecode as a flat instruction listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, mod, err := loadModule(args[0], args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tbc.Disassemble(env, mod))
			return nil
		},
	}
}
