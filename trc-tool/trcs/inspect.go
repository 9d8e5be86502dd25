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

package trcs

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/app/command"
)

// NewInspect returns a cobra command that prints the rendering of a TRC.
func NewInspect(pather command.Pather) *cobra.Command {
	var flags struct {
		canonical bool
	}
	cmd := &cobra.Command{
		Use:   "inspect [flags] <trc-file>",
		Short: "Print the canonical rendering of a TRC",
		Example: fmt.Sprintf(`  %[1]s inspect ISD1-V0.trc
  %[1]s inspect --canonical ISD1-V0.trc`, pather.CommandPath()),
		Long: `'inspect' decodes a TRC and prints its canonical rendering.

The rendering has sorted keys and an indentation of four spaces. By default,
the signatures are included. With '--canonical', the signing payload is printed
instead, i.e., the rendering without the signatures.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return RunInspect(cmd.OutOrStdout(), args[0], flags.canonical)
		},
	}
	cmd.Flags().BoolVar(&flags.canonical, "canonical", false,
		"Print the signing payload without signatures")
	return cmd
}

// RunInspect writes the rendering of the TRC file to w.
func RunInspect(w io.Writer, file string, canonical bool) error {
	raw, err := render(file, canonical)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

// NewCanonical returns a cobra command that writes the signing payload of a
// TRC exactly as it is signed.
func NewCanonical(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonical <trc-file>",
		Short: "Write the signing payload of a TRC",
		Example: fmt.Sprintf(`  %[1]s canonical ISD1-V0.trc > ISD1-V0.payload`,
			pather.CommandPath()),
		Long: `'canonical' writes the signing payload of a TRC to standard out.

The output is the exact byte sequence the core ADs sign. Unlike
'inspect --canonical', no trailing newline is written.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			raw, err := render(args[0], true)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	return cmd
}

func render(file string, canonical bool) ([]byte, error) {
	doc, err := trc.LoadFile(file)
	if err != nil {
		return nil, err
	}
	if canonical {
		raw, err := doc.SigningPayload()
		if err != nil {
			return nil, serrors.Wrap("computing signing payload", err, "file", file)
		}
		return raw, nil
	}
	raw, err := doc.JSON(true)
	if err != nil {
		return nil, serrors.Wrap("rendering TRC", err, "file", file)
	}
	return raw, nil
}
