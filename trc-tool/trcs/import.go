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
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/metrics/v2"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/app/command"
	"github.com/scionproto/scion-trc/private/storage"
	"github.com/scionproto/scion-trc/private/trust"
	trustmetrics "github.com/scionproto/scion-trc/private/trust/metrics"
	"github.com/scionproto/scion-trc/trc-tool/config"
)

// ImportOptions configures RunImport.
type ImportOptions struct {
	// Metrics enables writing the collected metrics after the import.
	Metrics bool
}

// NewImport returns a cobra command that loads the TRCs of a directory into
// the trust database.
func NewImport(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		metrics bool
	}
	cmd := &cobra.Command{
		Use:   "import [flags] <directory>",
		Short: "Load verified TRCs into the trust database",
		Example: fmt.Sprintf(`  %[1]s import --config trc-tool.toml /etc/scion/trcs`,
			pather.CommandPath()),
		Long: `'import' loads all *.trc files of a directory into the trust database.

Each TRC must verify. If the trust database holds the previous version of a
TRC, the TRC must be a valid update of it. TRCs that fail any check are
ignored and reported. The trust database is configured in the [trust_db]
section of the configuration file.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return RunImport(ctx, cmd.OutOrStdout(), args[0], *cfg,
				ImportOptions{Metrics: flags.metrics})
		},
	}
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false,
		"Write the collected metrics in the Prometheus text format")
	return cmd
}

// RunImport loads the TRCs in dir into the trust database configured in cfg
// and writes a summary to w.
func RunImport(
	ctx context.Context,
	w io.Writer,
	dir string,
	cfg config.Config,
	opts ImportOptions,
) error {
	db, err := storage.NewTrustStorage(cfg.TrustDB)
	if err != nil {
		return serrors.Wrap("opening trust database", err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	m := trustmetrics.New(metrics.WithRegistry(reg))
	loader := trust.TRCLoader{
		Dir: dir,
		DB:  db,
		Verifier: trc.Verifier{
			Workers: cfg.Verify.Workers,
			Observer: trc.Observers{
				m.Observer(),
				trc.LogObserver{Logger: log.FromCtx(ctx)},
			},
		},
		Metrics: m,
	}
	res, err := loader.Load(ctx)
	writeLoadResult(w, res)
	if err != nil {
		return serrors.Wrap("importing TRCs", err, "dir", dir)
	}
	if opts.Metrics {
		return writeMetrics(w, reg)
	}
	return nil
}

func writeLoadResult(w io.Writer, res trust.LoadResult) {
	var rows [][]string
	for _, f := range res.Loaded {
		rows = append(rows, []string{f, "loaded", ""})
	}
	for _, f := range slices.Sorted(maps.Keys(res.Ignored)) {
		rows = append(rows, []string{f, "ignored", res.Ignored[f].Error()})
	}
	writeTable(w, []string{"FILE", "RESULT", "REASON"}, rows)
	fmt.Fprintf(w, "%d loaded, %d ignored\n", len(res.Loaded), len(res.Ignored))
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return serrors.Wrap("gathering metrics", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return serrors.Wrap("writing metrics", err)
		}
	}
	return nil
}
