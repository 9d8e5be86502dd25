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

package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/scion-trc/private/storage/db"
)

const testSchema = `CREATE TABLE entries(id INTEGER PRIMARY KEY, value TEXT NOT NULL);`

func TestSqliteSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	sqlite, err := db.NewSqlite(path, nil)
	require.NoError(t, err)
	require.NoError(t, sqlite.Setup(testSchema, 1))
	_, err = sqlite.Full.Exec(`INSERT INTO entries(value) VALUES ('a')`)
	require.NoError(t, err)
	require.NoError(t, sqlite.Close())

	// Reopening with the same version keeps the data.
	sqlite, err = db.NewSqlite(path, &db.SqliteConfig{MaxOpenReadConns: 2})
	require.NoError(t, err)
	require.NoError(t, sqlite.Setup(testSchema, 1))
	var count int
	require.NoError(t, sqlite.ReadOnly.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count))
	assert.Equal(t, 1, count)
	_, err = sqlite.Checkpoint(context.Background())
	assert.NoError(t, err)
	require.NoError(t, sqlite.Close())

	// A different version is rejected.
	sqlite, err = db.NewSqlite(path, nil)
	require.NoError(t, err)
	defer sqlite.Close()
	assert.Error(t, sqlite.Setup(testSchema, 2))
}

func TestSqliteMemory(t *testing.T) {
	_, err := db.NewSqlite("file::memory:", nil)
	assert.Error(t, err)

	name := "file:" + t.Name()
	sqlite, err := db.NewSqlite(name, &db.SqliteConfig{InMemory: true})
	require.NoError(t, err)
	defer sqlite.Close()
	require.NoError(t, sqlite.Setup(testSchema, 1))
	_, err = sqlite.Full.Exec(`INSERT INTO entries(value) VALUES ('a')`)
	require.NoError(t, err)
	var value string
	require.NoError(t, sqlite.ReadOnly.QueryRow(`SELECT value FROM entries`).Scan(&value))
	assert.Equal(t, "a", value)

	assert.Panics(t, func() { _, _ = db.NewSqlite(name, &db.SqliteConfig{InMemory: true}) })
}
