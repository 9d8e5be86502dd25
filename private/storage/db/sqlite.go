// Copyright 2025 ETH Zurich, Anapaya Systems
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

// Package db contains the SQLite connection handling shared by all databases
// and the common database errors.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// Reader is the read-only subset of *sql.DB.
type Reader interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Stats() sql.DBStats
}

// SqliteConfig allows configuring the sqlite database instance.
type SqliteConfig struct {
	MaxOpenReadConns int
	MaxIdleReadConns int
	InMemory         bool
}

// NewSqlite creates a new sqlite database with a read and write connection pool. The write
// connection pool is limited to one open connection. The read connection pool defaults to a limit
// depending on the number of CPUs.
//
// The [Sqlite.Full] connection can be used to perform any operation, including reads and
// opening transactions. The [Sqlite.ReadOnly] connection should only be used for read
// operations.
func NewSqlite(path string, cfg *SqliteConfig) (*Sqlite, error) {
	c := func() SqliteConfig {
		if cfg != nil {
			return *cfg
		}
		return SqliteConfig{}
	}()

	// With a shared cache, :memory: would be shared by unrelated databases.
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("use explicitly named memory database", "path", path)
	}
	noFile, ok := strings.CutPrefix(path, "file:")

	connParams := make(url.Values)
	// Start write transactions with BEGIN IMMEDIATE so that busy_timeout is
	// respected when the database is locked.
	connParams.Add("_txlock", "immediate")
	// WAL: readers do not block the writer and vice versa.
	connParams.Add("_pragma", "journal_mode(WAL)")
	// Milliseconds.
	connParams.Add("_pragma", "busy_timeout(1000)")
	// NORMAL is safe from corruption in WAL mode.
	connParams.Add("_pragma", "synchronous(NORMAL)")
	connParams.Add("_pragma", "foreign_keys(1)")
	if c.InMemory {
		registerMemoryDB(noFile)
		connParams.Add("mode", "memory")
		// The read and write pools share the same in-memory database.
		connParams.Add("cache", "shared")
	}

	// Construct the connection URL.
	connUrl := path + "?" + connParams.Encode()
	if !ok {
		connUrl = "file:" + connUrl
	}

	write, err := sql.Open("sqlite", connUrl)
	if err != nil {
		return nil, serrors.Wrap("opening write database", err, "path", path)
	}
	write.SetMaxOpenConns(1)

	read, err := sql.Open("sqlite", connUrl)
	if err != nil {
		defer write.Close()
		return nil, serrors.Wrap("opening read database", err, "path", path)
	}

	// Set max open and idle connections for read DB.
	{
		if c.MaxOpenReadConns == 0 {
			c.MaxOpenReadConns = max(4, runtime.NumCPU())
		}
		read.SetMaxOpenConns(c.MaxOpenReadConns)

		if c.MaxIdleReadConns != 0 {
			read.SetMaxIdleConns(c.MaxIdleReadConns)
		}
	}

	db := &Sqlite{
		Full:     write,
		ReadOnly: read,
	}
	if c.InMemory {
		runtime.AddCleanup(db, func(name string) { unregisterMemoryDB(name) }, noFile)
	}
	return db, nil
}

// Sqlite holds the write and read connection pools of a database.
type Sqlite struct {
	Full     *sql.DB
	ReadOnly Reader
}

// Setup applies the schema to a new database. An existing database must have
// the given schema version.
func (db *Sqlite) Setup(schema string, schemaVersion int) error {
	// Check the schema version and set up new DB if necessary.
	var existingVersion int
	if err := db.Full.QueryRow("PRAGMA user_version;").Scan(&existingVersion); err != nil {
		return serrors.Wrap("checking database schema version", err)
	}
	switch {
	case existingVersion == 0:
		_, err := db.Full.Exec(schema)
		if err != nil {
			return serrors.Wrap("applying schema", err)
		}
		// Write schema version to database.
		_, err = db.Full.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
		if err != nil {
			return serrors.Wrap("writing schema version", err)
		}
		return nil
	case existingVersion != schemaVersion:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "actual", existingVersion)
	default:
		return nil
	}
}

// Checkpoint runs a WAL checkpoint with FULL mode on the write database.
func (db *Sqlite) Checkpoint(ctx context.Context) (CheckpointStats, error) {
	return Checkpoint(ctx, db.Full, "FULL")
}

// CheckpointStats are the counters reported by a WAL checkpoint.
type CheckpointStats struct {
	Busy         int
	LogFrames    int
	Checkpointed int
}

// Checkpoint runs a WAL checkpoint with the given mode (PASSIVE, FULL, RESTART, TRUNCATE) and
// returns the frame counters that SQLite reports.
func Checkpoint(ctx context.Context, db *sql.DB, mode string) (CheckpointStats, error) {
	var busy, logFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s);", mode)
	if err := db.QueryRowContext(ctx, query).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return CheckpointStats{}, serrors.Wrap("performing checkpoint", err, "mode", mode)
	}
	return CheckpointStats{
		Busy:         busy,
		LogFrames:    logFrames,
		Checkpointed: checkpointed,
	}, nil
}

// Close closes both connection pools.
func (db *Sqlite) Close() error {
	var errs serrors.List
	if err := db.Full.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing write db", err))
	}
	if err := db.ReadOnly.(*sql.DB).Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing read db", err))
	}
	return errs.ToError()
}

// memoryDBCheck tracks the names of open in-memory databases. Two databases
// with the same name would share their content.
var memoryDBCheck = struct {
	mtx sync.Mutex
	dbs map[string]struct{}
}{
	dbs: make(map[string]struct{}),
}

func registerMemoryDB(name string) {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	if _, ok := memoryDBCheck.dbs[name]; ok {
		panic(fmt.Sprintf("memory database with name %s already exists", name))
	}
	memoryDBCheck.dbs[name] = struct{}{}
}

func unregisterMemoryDB(name string) {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	delete(memoryDBCheck.dbs, name)
}
