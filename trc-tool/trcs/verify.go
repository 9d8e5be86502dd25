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
	"strings"

	"github.com/spf13/cobra"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/app/command"
	"github.com/scionproto/scion-trc/trc-tool/config"
)

// VerifyOptions configures RunVerify.
type VerifyOptions struct {
	// Quorum selects the quorum that must be reached (none|core|trc).
	Quorum string
	// Predecessor is the file of the previous TRC. If set, the TRC must be a
	// valid update of it.
	Predecessor string
	// Workers is the number of signatures checked concurrently.
	Workers int
	// Logger receives the verification events. It is optional.
	Logger log.Logger
	// Colored enables colored output.
	Colored bool
}

// NewVerify returns a cobra command that verifies a TRC.
func NewVerify(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		quorum      string
		predecessor string
		workers     int
		noColor     bool
	}
	cmd := &cobra.Command{
		Use:   "verify [flags] <trc-file>",
		Short: "Verify the signatures of a TRC",
		Example: fmt.Sprintf(`  %[1]s verify ISD1-V0.trc
  %[1]s verify --quorum trc ISD1-V0.trc
  %[1]s verify --predecessor ISD1-V0.trc ISD1-V1.trc`, pather.CommandPath()),
		Long: `'verify' verifies the signatures of a TRC.

Every signature must be made by a core AD of the TRC and verify under the key
in the core AD certificate. A TRC without signatures is accepted.

With '--quorum', the number of valid signatures must additionally reach the
core_quorum (core) or trc_quorum (trc) of the TRC. With '--predecessor', the
TRC must be a valid update of the given TRC: same ISD, next version, and
signatures of the previous core ADs that reach the previous core_quorum.

The command exits with a non-zero code if the verification fails.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := parseQuorum(flags.quorum); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			workers := cfg.Verify.Workers
			if cmd.Flags().Changed("workers") {
				workers = flags.workers
			}
			return RunVerify(cmd.OutOrStdout(), args[0], VerifyOptions{
				Quorum:      flags.quorum,
				Predecessor: flags.predecessor,
				Workers:     workers,
				Logger:      log.FromCtx(cmd.Context()),
				Colored:     !flags.noColor && colorTerm(),
			})
		},
	}
	cmd.Flags().StringVar(&flags.quorum, "quorum", "none",
		"The quorum that must be reached (none|core|trc)")
	cmd.Flags().StringVarP(&flags.predecessor, "predecessor", "p", "",
		"The previous TRC that the TRC must update")
	cmd.Flags().IntVar(&flags.workers, "workers", 1,
		"Number of signatures checked concurrently (default from config)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	return cmd
}

// RunVerify verifies the TRC file and writes the verdict to w. An error is
// returned if the TRC does not verify.
func RunVerify(w io.Writer, file string, opts VerifyOptions) error {
	quorum, check, err := parseQuorum(opts.Quorum)
	if err != nil {
		return err
	}
	doc, err := trc.LoadFile(file)
	if err != nil {
		return err
	}
	var prev *trc.TRC
	if opts.Predecessor != "" {
		if prev, err = trc.LoadFile(opts.Predecessor); err != nil {
			return serrors.Wrap("loading predecessor", err)
		}
	}

	var verdict error
	v := trc.Verifier{
		Workers: opts.Workers,
		Observer: trc.Observers{
			trc.LogObserver{Logger: opts.Logger},
			trc.ObserverFunc(func(e trc.Event) {
				if e.Kind == trc.EventVerified {
					verdict = e.Err
				}
			}),
		},
	}
	p := newPalette(opts.Colored)
	fail := func(err error) error {
		p.bad.Fprintf(w, "Verification failed: %s\n", doc)
		fmt.Fprintf(w, "  %s %s\n", p.keys.Sprint("Reason:"), err)
		return serrors.Wrap("verifying TRC", err, "file", file)
	}

	if !v.Verify(doc) {
		return fail(verdict)
	}
	if check {
		if err := v.CheckQuorum(doc, quorum); err != nil {
			return fail(err)
		}
	}
	if prev != nil {
		if err := v.VerifyUpdate(prev, doc); err != nil {
			return fail(err)
		}
	}

	p.good.Fprintf(w, "Verified TRC successfully: %s\n", doc)
	signers := v.ValidSigners(doc)
	if len(signers) == 0 {
		signers = []string{"<none>"}
	}
	fmt.Fprintf(w, "  %s %s\n", p.keys.Sprint("Signers:"), strings.Join(signers, ", "))
	if prev != nil {
		fmt.Fprintf(w, "  %s %s\n", p.keys.Sprint("Updates:"), prev)
	}
	return nil
}

func parseQuorum(s string) (trc.Quorum, bool, error) {
	switch s {
	case "", "none":
		return 0, false, nil
	case "core":
		return trc.CoreQuorum, true, nil
	case "trc":
		return trc.TRCQuorum, true, nil
	default:
		return 0, false, serrors.New("unknown quorum", "quorum", s)
	}
}
