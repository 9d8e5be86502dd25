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
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/scionproto/scion-trc/private/app/command"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func newVersion(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Show the trc-tool version information",
		Example: fmt.Sprintf("  %[1]s version", pather.CommandPath()),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout())
		},
	}
	return cmd
}

func writeVersion(w io.Writer) {
	v, goVersion, revision := version, "unknown", "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		if v == "" {
			v = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				revision = s.Value
			}
		}
	}
	if v == "" {
		v = "(devel)"
	}
	fmt.Fprintf(w, "trc-tool version information:\n")
	fmt.Fprintf(w, "  Version:     %s\n", v)
	fmt.Fprintf(w, "  Revision:    %s\n", revision)
	fmt.Fprintf(w, "  Go version:  %s\n", goVersion)
}
