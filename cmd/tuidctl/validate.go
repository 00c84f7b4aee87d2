/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a declaration file for contradictory naming configuration",
		Long: `Decodes an HCL, JSON or YAML declaration file and reports every
contradictory declaration: providers declared twice, naming configs that set
both a generator type and a provider, and references to unknown providers or
generator types.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, reg, _, err := load(cmd, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	methods := 0
	entries := reg.Entries()
	for _, decl := range entries {
		methods += len(decl.Methods)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d classes, %d methods\n", len(entries), methods)
	return nil
}
