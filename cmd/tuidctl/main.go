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

// Command tuidctl checks declaration files and renders TUIDs from them.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"dirpx.dev/tuid/apis"
	"dirpx.dev/tuid/loader"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tuidctl",
		Short:         "Check TUID declaration files and render identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newValidateCmd(), newRenderCmd())
	return root
}

// logger builds the command logger from the --log-level flag.
func logger(cmd *cobra.Command) hclog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tuidctl",
		Level:  hclog.LevelFromString(level),
		Output: cmd.ErrOrStderr(),
	})
}

// load decodes path into a registry built for the file's own settings.
func load(cmd *cobra.Command, path string) (*loader.File, apis.Registry, apis.Config, error) {
	f, reg, err := loader.New(logger(cmd)).Build(path, nil)
	if f == nil {
		return nil, nil, apis.Config{}, err
	}
	return f, reg, f.Config(), err
}
