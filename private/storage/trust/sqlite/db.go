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

// Package sqlite implements the TRC storage on top of SQLite.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/private/storage/db"
	truststorage "github.com/scionproto/scion-trc/private/storage/trust"
)

var _ truststorage.DB = (*Backend)(nil)

// Backend implements the trust DB with sqlite.
type Backend struct {
	db *db.Sqlite
}

// New returns a new SQLite backend opening a database at the given path. If
// no database exists a new database is created. If the schema version of the
// stored database is different from the one in schema.go, an error is
// returned.
func New(path string, cfg *db.SqliteConfig) (*Backend, error) {
	sqlite, err := db.NewSqlite(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Setup(Schema, SchemaVersion); err != nil {
		_ = sqlite.Close()
		return nil, serrors.Wrap("setting up trust DB", err, "path", path)
	}
	return &Backend{db: sqlite}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// InsertTRC inserts the TRC. It returns false if the identical TRC is already
// stored.
func (b *Backend) InsertTRC(ctx context.Context, t *trc.TRC) (bool, error) {
	raw, err := t.JSON(true)
	if err != nil {
		return false, db.NewInputDataError("encoding TRC", err, "trc", t.Key())
	}
	fp := Fingerprint(raw)

	tx, err := b.db.Full.BeginTx(ctx, nil)
	if err != nil {
		return false, db.NewTxError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	query := `SELECT fingerprint FROM trcs WHERE isd_id=? AND version=?`
	err = tx.QueryRowContext(ctx, query, t.ISD, t.Version).Scan(&existing)
	switch {
	case err == nil:
		if existing != fp {
			return false, serrors.JoinNoStack(truststorage.ErrContentMismatch, nil,
				"trc", t.Key(), "stored", existing, "new", fp)
		}
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, db.NewReadError("checking existing TRC", err, "trc", t.Key())
	}

	insert := `INSERT INTO trcs (isd_id, version, creation_time, fingerprint, raw)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, t.ISD, t.Version, t.Time, fp, raw); err != nil {
		return false, db.NewWriteError("inserting TRC", err, "trc", t.Key())
	}
	if err := tx.Commit(); err != nil {
		return false, db.NewTxError("commit transaction", err)
	}
	return true, nil
}

// GetTRC returns the TRC with the key.
func (b *Backend) GetTRC(ctx context.Context, key trc.Key) (*trc.TRC, error) {
	query := `SELECT raw FROM trcs WHERE isd_id=? AND version=?`
	return b.queryTRC(ctx, query, []any{key.ISD, key.Version}, "trc", key)
}

// LatestTRC returns the TRC with the highest version in the ISD.
func (b *Backend) LatestTRC(ctx context.Context, isd int64) (*trc.TRC, error) {
	query := `SELECT raw FROM trcs WHERE isd_id=? ORDER BY version DESC LIMIT 1`
	return b.queryTRC(ctx, query, []any{isd}, "isd", isd)
}

func (b *Backend) queryTRC(ctx context.Context, query string, args []any,
	logCtx ...any) (*trc.TRC, error) {

	var raw []byte
	err := b.db.ReadOnly.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, serrors.JoinNoStack(truststorage.ErrNotFound, nil, logCtx...)
	}
	if err != nil {
		return nil, db.NewReadError("reading TRC", err, logCtx...)
	}
	t, err := trc.Decode(raw)
	if err != nil {
		return nil, db.NewDataError("decoding stored TRC", err, logCtx...)
	}
	return t, nil
}

// TRCKeys returns the keys of all stored TRCs.
func (b *Backend) TRCKeys(ctx context.Context) ([]trc.Key, error) {
	query := `SELECT isd_id, version FROM trcs ORDER BY isd_id, version`
	rows, err := b.db.ReadOnly.QueryContext(ctx, query)
	if err != nil {
		return nil, db.NewReadError("listing TRCs", err)
	}
	defer rows.Close()
	var keys []trc.Key
	for rows.Next() {
		var key trc.Key
		if err := rows.Scan(&key.ISD, &key.Version); err != nil {
			return nil, db.NewDataError("scanning TRC key", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("listing TRCs", err)
	}
	return keys, nil
}

// Fingerprint returns the hex encoded SHA-256 hash of the raw TRC.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
