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

// Package trust loads verified TRCs into the trust database.
package trust

import (
	"cmp"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/metrics/v2"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/storage/db"
	truststorage "github.com/scionproto/scion-trc/private/storage/trust"
	trustmetrics "github.com/scionproto/scion-trc/private/trust/metrics"
)

// ErrAlreadyExists indicates a file is ignored because the contents have
// already been loaded previously.
var ErrAlreadyExists = serrors.New("already exists")

// LoadResult indicates which files were loaded, which files were ignored.
type LoadResult struct {
	Loaded  []string
	Ignored map[string]error
}

// LoadTRCs loads all *.trc files located in a directory into the database.
// Every TRC must verify. If the database holds the predecessor of a TRC, the
// TRC must also be a valid update of it. Files that do not satisfy this are
// ignored. The function exits on the first database error.
//
// The TRCs are inserted in the order of ISD and version, such that updates
// found in the same directory are checked against their predecessors.
//
// This function is not recommended for repeated use as it will read all TRC
// files in a directory on every invocation. Consider using a TRCLoader if you
// want to monitor a directory for new TRCs.
func LoadTRCs(
	ctx context.Context,
	dir string,
	db truststorage.DB,
	verifier trc.Verifier,
) (LoadResult, error) {
	l := loader{db: db, verifier: verifier}
	return l.load(ctx, dir, nil)
}

type loader struct {
	db       truststorage.DB
	verifier trc.Verifier
	metrics  trustmetrics.Metrics
}

type candidate struct {
	file string
	trc  *trc.TRC
}

func (l loader) load(
	ctx context.Context,
	dir string,
	ignoreFiles map[string]struct{},
) (LoadResult, error) {
	if _, err := os.Stat(dir); err != nil {
		return LoadResult{}, serrors.WrapNoStack("stating directory", err, "dir", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.trc"))
	if err != nil {
		return LoadResult{}, serrors.WrapNoStack("searching for TRCs", err, "dir", dir)
	}

	res := LoadResult{Ignored: map[string]error{}}
	var candidates []candidate
	for _, f := range files {
		// ignore as per request of the caller
		if _, ok := ignoreFiles[f]; ok {
			continue
		}
		t, err := trc.LoadFile(f)
		if err != nil {
			l.ignore(res, f, err, trustmetrics.ErrParse)
			continue
		}
		candidates = append(candidates, candidate{file: f, trc: t})
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(a.trc.ISD, b.trc.ISD); c != 0 {
			return c
		}
		return cmp.Compare(a.trc.Version, b.trc.Version)
	})

	ctx, logger := log.WithLabels(ctx, "dir", dir)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := l.check(ctx, c.trc); err != nil {
			if isDBError(err) {
				l.count(dbLabel(err))
				return res, serrors.WrapNoStack("checking TRC", err, "file", c.file)
			}
			l.ignore(res, c.file, err, trustmetrics.VerifyResult(err))
			continue
		}
		inserted, err := l.db.InsertTRC(ctx, c.trc)
		switch {
		case errors.Is(err, truststorage.ErrContentMismatch):
			l.ignore(res, c.file, err, trustmetrics.ErrMismatch)
			continue
		case err != nil:
			l.count(dbLabel(err))
			return res, serrors.WrapNoStack("adding TRC to DB", err, "file", c.file)
		case !inserted:
			l.ignore(res, c.file, ErrAlreadyExists, trustmetrics.OkExists)
			continue
		}
		logger.Debug("Loaded TRC", "file", c.file, "trc", c.trc.Key())
		l.count(trustmetrics.Success)
		res.Loaded = append(res.Loaded, c.file)
	}
	return res, nil
}

// check verifies the TRC and, if the predecessor is known, the update.
func (l loader) check(ctx context.Context, t *trc.TRC) error {
	var verdict error
	v := l.verifier
	v.Observer = trc.Observers{l.verifier.Observer, trc.ObserverFunc(func(e trc.Event) {
		if e.Kind == trc.EventVerified {
			verdict = e.Err
		}
	})}
	if !v.Verify(t) {
		return verdict
	}
	if t.Version == 0 {
		return nil
	}
	prev, err := l.db.GetTRC(ctx, trc.Key{ISD: t.ISD, Version: t.Version - 1})
	switch {
	case errors.Is(err, truststorage.ErrNotFound):
		return nil
	case err != nil:
		return dbError{err}
	}
	// The signatures have been reported already.
	update := l.verifier
	update.Observer = nil
	return update.VerifyUpdate(prev, t)
}

func (l loader) ignore(res LoadResult, file string, err error, label string) {
	res.Ignored[file] = err
	l.count(label)
}

// dbLabel classifies a trust DB failure. Errors that the storage layer did
// not classify are reported as DB errors.
func dbLabel(err error) string {
	if label := db.ErrToMetricLabel(err); label != trustmetrics.ErrNotClassified {
		return label
	}
	return trustmetrics.ErrDB
}

func (l loader) count(label string) {
	if l.metrics.Loads != nil {
		metrics.CounterInc(l.metrics.Loads(label))
	}
}

type dbError struct {
	error
}

func (e dbError) Unwrap() error {
	return e.error
}

func isDBError(err error) bool {
	var dbErr dbError
	return errors.As(err, &dbErr)
}

// TRCLoader loads TRCs from a directory and stores them in the database. It
// tracks files that it has already loaded and does not load them again.
type TRCLoader struct {
	Dir      string
	DB       truststorage.DB
	Verifier trc.Verifier
	// Metrics counts the processed files. It is optional.
	Metrics trustmetrics.Metrics

	seen map[string]struct{}
	mtx  sync.Mutex
}

// Load loads all TRCs from the directory into database. Files that have been
// loaded by a previous Load invocation are silently ignored.
func (l *TRCLoader) Load(ctx context.Context) (LoadResult, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}

	ld := loader{db: l.DB, verifier: l.Verifier, metrics: l.Metrics}
	result, err := ld.load(ctx, l.Dir, l.seen)
	for _, f := range result.Loaded {
		l.seen[f] = struct{}{}
	}
	for f, err := range result.Ignored {
		if errors.Is(err, ErrAlreadyExists) {
			l.seen[f] = struct{}{}
		}
	}
	return result, err
}
