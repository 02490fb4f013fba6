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

func newRunCmd() *cobra.Command {
	var entry string
	cmd := &cobra.Command{
		Use:   "run <module.wasm> [args...]",
		Short: "Translate a module, run its start function, and optionally invoke an export",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, mod, err := loadModule(args[0], args[0])
			if err != nil {
				return err
			}

			in := tbc.NewInterpreter(env)
			if err := in.RunStart(mod); err != nil {
				return fmt.Errorf("running start function: %w", err)
			}
			if entry == "" {
				return nil
			}

			export, ok := mod.FindExport(entry)
			if !ok || export.Kind != tbc.ExternalFunc {
				return fmt.Errorf("no function export named %q", entry)
			}
			sig := env.Signatures[env.Funcs[export.Index].SigIndex]

			callArgs, err := parseArgs(args[1:], sig.ParamTypes)
			if err != nil {
				return err
			}
			results, err := in.Invoke(mod, entry, callArgs)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&entry, "invoke", "", "name of the export to invoke after the start function runs")
	return cmd
}
