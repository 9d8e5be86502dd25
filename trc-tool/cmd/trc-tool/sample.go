// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/scionproto/scion-trc/private/app/command"
	libconfig "github.com/scionproto/scion-trc/private/config"
	"github.com/scionproto/scion-trc/trc-tool/config"
)

func newSample(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sample",
		Short:   "Display sample configuration file",
		Example: fmt.Sprintf("  %[1]s sample > trc-tool.toml", pather.CommandPath()),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			var cfg config.Config
			cfg.Sample(cmd.OutOrStdout(), nil, libconfig.CtxMap{libconfig.ID: config.ID})
		},
	}
	return cmd
}
