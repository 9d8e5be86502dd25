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

package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc/trctest"
	"github.com/scionproto/scion-trc/private/storage/db"
	truststorage "github.com/scionproto/scion-trc/private/storage/trust"
	"github.com/scionproto/scion-trc/private/storage/trust/sqlite"
)

var (
	ad1 = trctest.NewSigner("1-11", 1)
	ad2 = trctest.NewSigner("1-12", 2)
)

func newTRC(t *testing.T, isd, version int64) *trc.TRC {
	p := trctest.Params(ad1, ad2)
	p.ISD = isd
	p.Version = version
	return trctest.Sign(t, trctest.New(t, p), ad1, ad2)
}

func setupDB(t *testing.T) (*sqlite.Backend, string) {
	path := filepath.Join(t.TempDir(), "trust.db")
	b, err := sqlite.New(path, nil)
	require.NoError(t, err, "Failed to open DB")
	t.Cleanup(func() { _ = b.Close() })
	return b, path
}

func TestInsertGet(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), time.Second)
	defer cancelF()
	b, _ := setupDB(t)

	v0 := newTRC(t, 1, 0)
	inserted, err := b.InsertTRC(ctx, v0)
	require.NoError(t, err)
	assert.True(t, inserted)

	got, err := b.GetTRC(ctx, trc.Key{ISD: 1, Version: 0})
	require.NoError(t, err)
	assert.True(t, trc.Equal(v0, got))
	assert.True(t, got.Verify())

	t.Run("duplicate", func(t *testing.T) {
		inserted, err := b.InsertTRC(ctx, v0)
		require.NoError(t, err)
		assert.False(t, inserted)
	})
	t.Run("content mismatch", func(t *testing.T) {
		other := newTRC(t, 1, 0)
		other.TRCServerAddr = "10.0.0.9:30001"
		inserted, err := b.InsertTRC(ctx, other)
		assert.ErrorIs(t, err, truststorage.ErrContentMismatch)
		assert.False(t, inserted)

		got, err := b.GetTRC(ctx, trc.Key{ISD: 1, Version: 0})
		require.NoError(t, err)
		assert.True(t, trc.Equal(v0, got))
	})
	t.Run("not found", func(t *testing.T) {
		_, err := b.GetTRC(ctx, trc.Key{ISD: 1, Version: 5})
		assert.ErrorIs(t, err, truststorage.ErrNotFound)
		_, err = b.LatestTRC(ctx, 2)
		assert.ErrorIs(t, err, truststorage.ErrNotFound)
	})
	t.Run("unencodable", func(t *testing.T) {
		bad := &trc.TRC{ISD: 3, TRCServerAddr: "ä"}
		_, err := b.InsertTRC(ctx, bad)
		assert.ErrorIs(t, err, db.ErrInvalidInputData)
		assert.ErrorIs(t, err, trc.ErrNonASCII)
	})
}

func TestLatestTRC(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), time.Second)
	defer cancelF()
	b, _ := setupDB(t)

	for _, key := range []trc.Key{
		{ISD: 1, Version: 0},
		{ISD: 1, Version: 2},
		{ISD: 1, Version: 1},
		{ISD: 2, Version: 7},
	} {
		_, err := b.InsertTRC(ctx, newTRC(t, key.ISD, key.Version))
		require.NoError(t, err, key)
	}
	latest, err := b.LatestTRC(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, trc.Key{ISD: 1, Version: 2}, latest.Key())

	latest, err = b.LatestTRC(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, trc.Key{ISD: 2, Version: 7}, latest.Key())

	keys, err := b.TRCKeys(ctx)
	require.NoError(t, err)
	expected := []trc.Key{
		{ISD: 1, Version: 0},
		{ISD: 1, Version: 1},
		{ISD: 1, Version: 2},
		{ISD: 2, Version: 7},
	}
	assert.Equal(t, expected, keys)
}

func TestTRCKeysEmpty(t *testing.T) {
	b, _ := setupDB(t)
	keys, err := b.TRCKeys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// TestOpenExisting tests that New does not overwrite an existing database if
// versions match.
func TestOpenExisting(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), time.Second)
	defer cancelF()
	b, path := setupDB(t)
	v0 := newTRC(t, 1, 0)
	_, err := b.InsertTRC(ctx, v0)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	b, err = sqlite.New(path, nil)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.GetTRC(ctx, v0.Key())
	require.NoError(t, err)
	assert.True(t, trc.Equal(v0, got))
}

// TestOpenNewer tests that New does not overwrite an existing database if it's
// of a newer version.
func TestOpenNewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trust.db")
	raw, err := db.NewSqlite(path, nil)
	require.NoError(t, err)
	_, err = raw.Full.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqlite.SchemaVersion+1))
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	b, err := sqlite.New(path, nil)
	assert.Error(t, err)
	assert.Nil(t, b)
}

func TestFingerprint(t *testing.T) {
	// sha256 of the empty input.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		sqlite.Fingerprint(nil))
	assert.NotEqual(t, sqlite.Fingerprint([]byte("a")), sqlite.Fingerprint([]byte("b")))
}
