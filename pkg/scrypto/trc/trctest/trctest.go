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

// Package trctest provides helpers to create signed TRCs in tests.
package trctest

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"maps"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/sign"

	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
)

// Signer is a core AD with its key pair.
type Signer struct {
	Subject string
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// NewSigner creates a signer with a key derived from a seed that consists of
// the repeated seed byte.
func NewSigner(subject string, seed byte) Signer {
	priv := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	return Signer{
		Subject: subject,
		Private: priv,
		Public:  priv.Public().(ed25519.PublicKey),
	}
}

// Certificate returns the base64 encoded certificate blob of the signer.
func (s Signer) Certificate() string {
	return EncodeCertificate(map[string]any{
		"subject":              s.Subject,
		"issuer":               s.Subject,
		"version":              0,
		"algorithm":            "ed25519",
		trc.SubjectPubKeyField: base64.StdEncoding.EncodeToString(s.Public),
	})
}

// EncodeCertificate encodes the fields as a certificate blob.
func EncodeCertificate(fields map[string]any) string {
	raw, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// SignDetached returns the base64 encoded detached signature of msg, i.e.,
// the signature prefix of the NaCl signed message.
func (s Signer) SignDetached(msg []byte) string {
	var key [64]byte
	copy(key[:], s.Private)
	signed := sign.Sign(nil, msg, &key)
	return base64.StdEncoding.EncodeToString(signed[:sign.Overhead])
}

// Sign returns a copy of t with signatures of all signers added to the
// existing ones.
func Sign(t testing.TB, doc *trc.TRC, signers ...Signer) *trc.TRC {
	t.Helper()
	payload, err := doc.SigningPayload()
	require.NoError(t, err)
	sigs := maps.Clone(doc.Signatures)
	if sigs == nil {
		sigs = make(map[string]string, len(signers))
	}
	for _, s := range signers {
		sigs[s.Subject] = s.SignDetached(payload)
	}
	return doc.WithSignatures(sigs)
}

// CoreADs returns the core AD map for the signers.
func CoreADs(signers ...Signer) map[string]string {
	m := make(map[string]string, len(signers))
	for _, s := range signers {
		m[s.Subject] = s.Certificate()
	}
	return m
}

// Params returns the parameters of a sample TRC in ISD 1 with the signers as
// core ADs.
func Params(signers ...Signer) trc.Params {
	return trc.Params{
		ISD:        1,
		Version:    0,
		CoreQuorum: int64(len(signers)),
		TRCQuorum:  int64(len(signers)),
		CoreISPs:   map[string]string{"isp-a": "isp-a.example.net"},
		RootCAs:    map[string]string{"ca-1": "Q0EgY2VydGlmaWNhdGU="},
		CoreADs:    CoreADs(signers...),
		Policies: map[string]any{
			"max_path_len": 12,
			"ratio":        0.5,
			"labels":       []string{"core", "edge"},
		},
		RegistryServerAddr: "10.0.0.1:30000",
		RegistryServerCert: "cmVnaXN0cnk=",
		RootDNSServerAddr:  "10.0.0.2:53",
		RootDNSServerCert:  "ZG5z",
		TRCServerAddr:      "10.0.0.3:30001",
	}
}

// New creates an unsigned TRC from the parameters.
func New(t testing.TB, p trc.Params) *trc.TRC {
	t.Helper()
	doc, err := trc.New(p)
	require.NoError(t, err)
	return doc
}

// Signed creates a TRC with the signers as core ADs, signed by all of them.
func Signed(t testing.TB, signers ...Signer) *trc.TRC {
	t.Helper()
	return Sign(t, New(t, Params(signers...)), signers...)
}
