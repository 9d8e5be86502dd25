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

package trc

import (
	"encoding/base64"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/pkg/scrypto"
)

// Verifier verifies the signatures of TRCs.
type Verifier struct {
	// Primitive opens the signed messages. If nil, scrypto.Ed25519 is used.
	Primitive scrypto.DetachedVerifier
	// Observer is notified about every signer check and every verdict. It is
	// optional.
	Observer Observer
	// Workers is the maximum number of signatures checked concurrently. Values
	// smaller than 2 check the signatures sequentially.
	Workers int
}

// Verify checks the signatures of the TRC. Signers are checked in sorted
// order and the first failure rejects the TRC. Each signer must be a core AD
// and its signature must verify under the key from the core AD certificate.
// A TRC without signatures is accepted.
func (v Verifier) Verify(t *TRC) bool {
	return v.verify(t) == nil
}

// Verify checks the signatures of the TRC with the default verifier.
func (t *TRC) Verify() bool {
	return Verifier{}.Verify(t)
}

func (v Verifier) verify(t *TRC) error {
	payload, err := t.SigningPayload()
	if err != nil {
		v.observe(Event{Kind: EventVerified, TRC: t.Key(), Err: err})
		return err
	}
	signers := slices.Sorted(maps.Keys(t.Signatures))
	errs := v.check(t, payload, t, signers, true)
	var verdict error
	for i, signer := range signers {
		if i >= len(errs) {
			break
		}
		v.observe(Event{Kind: EventSignerChecked, TRC: t.Key(), Signer: signer, Err: errs[i]})
		if errs[i] != nil {
			verdict = errs[i]
			break
		}
	}
	v.observe(Event{Kind: EventVerified, TRC: t.Key(), Err: verdict})
	return verdict
}

// check checks the signatures of signers on t, resolving keys from the core
// ADs of keys. The result holds one error per checked signer. If stopEarly is
// set, sequential checking stops after the first failure.
func (v Verifier) check(t *TRC, payload []byte, keys *TRC, signers []string,
	stopEarly bool) []error {

	errs := make([]error, len(signers))
	if v.Workers < 2 || len(signers) < 2 {
		for i, signer := range signers {
			errs[i] = v.checkSigner(keys, payload, signer, t.Signatures[signer])
			if errs[i] != nil && stopEarly {
				return errs[:i+1]
			}
		}
		return errs
	}
	var g errgroup.Group
	g.SetLimit(v.Workers)
	for i, signer := range signers {
		g.Go(func() error {
			defer log.HandlePanic()
			errs[i] = v.checkSigner(keys, payload, signer, t.Signatures[signer])
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func (v Verifier) checkSigner(keys *TRC, payload []byte, signer, encSig string) error {
	if _, ok := keys.CoreADs[signer]; !ok {
		return serrors.JoinNoStack(ErrUnresolvedSigner, nil, "signer", signer,
			"reason", "not a core AD")
	}
	key, err := keys.PublicKey(signer)
	if err != nil {
		return serrors.JoinNoStack(ErrUnresolvedSigner, err, "signer", signer)
	}
	sig, err := base64.StdEncoding.Strict().DecodeString(encSig)
	if err != nil {
		return serrors.JoinNoStack(ErrSignatureInvalid, err, "signer", signer)
	}
	signed := make([]byte, 0, len(sig)+len(payload))
	signed = append(append(signed, sig...), payload...)
	if _, err := v.primitive().VerifyDetached(signed, key); err != nil {
		return serrors.JoinNoStack(ErrSignatureInvalid, err, "signer", signer)
	}
	return nil
}

func (v Verifier) primitive() scrypto.DetachedVerifier {
	if v.Primitive == nil {
		return scrypto.Ed25519{}
	}
	return v.Primitive
}

func (v Verifier) observe(e Event) {
	if v.Observer != nil {
		v.Observer.Observe(e)
	}
}
