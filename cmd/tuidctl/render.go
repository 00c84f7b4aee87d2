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

	"dirpx.dev/tuid"
	"dirpx.dev/tuid/apis"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the TUID of one invocation",
		Long: `Loads a declaration file and prints the TUID computed for the given
class, method and parameters. Providers bound to suite methods and field-based
instance fragments need a live suite and fail here.`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
	cmd.Flags().StringP("class", "c", "", "Test class key")
	cmd.Flags().StringP("method", "m", "", "Test method name")
	cmd.Flags().StringArrayP("param", "p", nil, "Explicit instance parameter (repeatable)")
	cmd.Flags().StringArrayP("data", "d", nil, "Live data-provider parameter (repeatable)")
	cmd.Flags().String("data-provider", "", "Data-provider binding name (defaults to \"data\" when --data is set)")
	cmd.Flags().IntP("count", "n", 1, "Invocation count")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	_, reg, cfg, err := load(cmd, args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	class, _ := cmd.Flags().GetString("class")
	method, _ := cmd.Flags().GetString("method")
	params, _ := cmd.Flags().GetStringArray("param")
	data, _ := cmd.Flags().GetStringArray("data")
	provider, _ := cmd.Flags().GetString("data-provider")
	count, _ := cmd.Flags().GetInt("count")

	if provider == "" && len(data) > 0 {
		provider = "data"
	}

	tc := apis.TestContext{
		Class:        class,
		Method:       method,
		Parameters:   toAny(data),
		DataProvider: provider,
		Invocation:   count,
	}

	e := tuid.New(tuid.WithConfig(cfg), tuid.WithRegistry(reg), tuid.WithLogger(logger(cmd)))
	id, err := e.TUID(tc, toAny(params)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func toAny(in []string) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
