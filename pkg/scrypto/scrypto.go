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

// Package scrypto contains the signature primitive used to verify TRC
// signatures.
package scrypto

import (
	"crypto/ed25519"

	"golang.org/x/crypto/nacl/sign"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

const (
	// Ed25519SignatureSize is the size of a detached ed25519 signature.
	Ed25519SignatureSize = sign.Overhead
)

var (
	// ErrInvalidKeySize indicates the public key does not have the expected size.
	ErrInvalidKeySize = serrors.New("invalid key size")
	// ErrInvalidSignature indicates the signed message could not be opened.
	ErrInvalidSignature = serrors.New("invalid signature")
)

// DetachedVerifier verifies a signed message in the signature-prefixed
// layout, i.e., signed = signature || message. On success, the opened message
// is returned.
type DetachedVerifier interface {
	VerifyDetached(signed, publicKey []byte) ([]byte, error)
}

// DetachedVerifierFunc wraps a function to implement DetachedVerifier.
type DetachedVerifierFunc func(signed, publicKey []byte) ([]byte, error)

// VerifyDetached calls f.
func (f DetachedVerifierFunc) VerifyDetached(signed, publicKey []byte) ([]byte, error) {
	return f(signed, publicKey)
}

// Ed25519 opens NaCl signed messages (crypto_sign_ed25519_open).
type Ed25519 struct{}

// VerifyDetached opens the signed message with the raw 32 byte ed25519 public
// key.
func (Ed25519) VerifyDetached(signed, publicKey []byte) ([]byte, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"expected", ed25519.PublicKeySize, "actual", len(publicKey))
	}
	if len(signed) < sign.Overhead {
		return nil, serrors.JoinNoStack(ErrInvalidSignature, nil,
			"reason", "signed message too short", "length", len(signed))
	}
	var key [ed25519.PublicKeySize]byte
	copy(key[:], publicKey)
	msg, ok := sign.Open(nil, signed, &key)
	if !ok {
		return nil, ErrInvalidSignature
	}
	return msg, nil
}
