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
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/app/command"
)

// NewKey returns a cobra command that prints the public keys of the core ADs
// of a TRC.
func NewKey(pather command.Pather) *cobra.Command {
	var flags struct {
		format string
	}
	cmd := &cobra.Command{
		Use:   "key [flags] <trc-file> [subject]",
		Short: "Print the public key of a core AD",
		Example: fmt.Sprintf(`  %[1]s key ISD1-V0.trc 1-11
  %[1]s key --format hex ISD1-V0.trc`, pather.CommandPath()),
		Long: `'key' extracts the public key of a core AD from the TRC.

The key is taken from the subject_pub_key field of the core AD certificate.
If no subject is given, the keys of all core ADs are listed.
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := encodeKey(nil, flags.format); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			subject := ""
			if len(args) == 2 {
				subject = args[1]
			}
			return RunKey(cmd.OutOrStdout(), args[0], subject, flags.format)
		},
	}
	cmd.Flags().StringVar(&flags.format, "format", "base64",
		"The format of the key (base64|hex)")
	return cmd
}

// RunKey writes the public key of the subject to w. If subject is empty, a
// table of all core AD keys is written.
func RunKey(w io.Writer, file, subject, format string) error {
	doc, err := trc.LoadFile(file)
	if err != nil {
		return err
	}
	if subject != "" {
		key, err := doc.PublicKey(subject)
		if err != nil {
			return serrors.Wrap("extracting public key", err, "subject", subject)
		}
		out, err := encodeKey(key, format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	var rows [][]string
	for _, s := range doc.CoreADSubjects() {
		key, err := doc.PublicKey(s)
		if err != nil {
			rows = append(rows, []string{s, fmt.Sprintf("error: %s", err)})
			continue
		}
		out, err := encodeKey(key, format)
		if err != nil {
			return err
		}
		rows = append(rows, []string{s, out})
	}
	writeTable(w, []string{"SUBJECT", "KEY"}, rows)
	return nil
}

func encodeKey(key []byte, format string) (string, error) {
	switch format {
	case "base64":
		return base64.StdEncoding.EncodeToString(key), nil
	case "hex":
		return hex.EncodeToString(key), nil
	default:
		return "", serrors.New("unsupported format", "format", format)
	}
}
