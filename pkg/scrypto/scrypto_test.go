// Copyright 2017 ETH Zurich
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

package scrypto_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/scion-trc/pkg/scrypto"
)

func TestEd25519VerifyDetached(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = 0x42
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	msg := []byte("signed payload")
	sig := ed25519.Sign(priv, msg)

	testCases := map[string]struct {
		signed    []byte
		key       []byte
		assertErr assert.ErrorAssertionFunc
		errIs     error
	}{
		"valid": {
			signed:    append(append([]byte{}, sig...), msg...),
			key:       pub,
			assertErr: assert.NoError,
		},
		"tampered message": {
			signed:    append(append([]byte{}, sig...), []byte("signed paylaod")...),
			key:       pub,
			assertErr: assert.Error,
			errIs:     scrypto.ErrInvalidSignature,
		},
		"message first": {
			signed:    append(append([]byte{}, msg...), sig...),
			key:       pub,
			assertErr: assert.Error,
			errIs:     scrypto.ErrInvalidSignature,
		},
		"too short": {
			signed:    sig[:10],
			key:       pub,
			assertErr: assert.Error,
			errIs:     scrypto.ErrInvalidSignature,
		},
		"short key": {
			signed:    append(append([]byte{}, sig...), msg...),
			key:       pub[:31],
			assertErr: assert.Error,
			errIs:     scrypto.ErrInvalidKeySize,
		},
		"private key": {
			signed:    append(append([]byte{}, sig...), msg...),
			key:       priv,
			assertErr: assert.Error,
			errIs:     scrypto.ErrInvalidKeySize,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			opened, err := scrypto.Ed25519{}.VerifyDetached(tc.signed, tc.key)
			tc.assertErr(t, err)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.Equal(t, msg, opened)
		})
	}
}

func TestDetachedVerifierFunc(t *testing.T) {
	called := false
	var v scrypto.DetachedVerifier = scrypto.DetachedVerifierFunc(
		func(signed, key []byte) ([]byte, error) {
			called = true
			return signed, nil
		},
	)
	out, err := v.VerifyDetached([]byte("a"), nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []byte("a"), out)
}
