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

// Package trust defines the storage API of verified TRCs.
package trust

import (
	"context"
	"io"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
)

var (
	// ErrNotFound indicates that the requested TRC is not stored.
	ErrNotFound = serrors.New("TRC not found")
	// ErrContentMismatch indicates that a different TRC with the same ISD and
	// version is already stored.
	ErrContentMismatch = serrors.New("content mismatch")
)

// DB stores TRCs. The TRCs are stored in their canonical form including the
// signatures.
type DB interface {
	io.Closer
	// InsertTRC inserts the TRC. It returns true if the TRC was inserted, and
	// false if the identical TRC is already stored. A different TRC with the
	// same ISD and version results in ErrContentMismatch.
	InsertTRC(ctx context.Context, t *trc.TRC) (bool, error)
	// GetTRC returns the TRC with the key, or ErrNotFound.
	GetTRC(ctx context.Context, key trc.Key) (*trc.TRC, error)
	// LatestTRC returns the TRC with the highest version in the ISD, or
	// ErrNotFound.
	LatestTRC(ctx context.Context, isd int64) (*trc.TRC, error)
	// TRCKeys returns the keys of all stored TRCs, sorted by ISD and version.
	TRCKeys(ctx context.Context) ([]trc.Key, error)
}
