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
	"maps"
	"slices"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// Quorum selects a quorum threshold of a TRC.
type Quorum int

const (
	// CoreQuorum is the core_quorum threshold.
	CoreQuorum Quorum = iota
	// TRCQuorum is the trc_quorum threshold.
	TRCQuorum
)

func (q Quorum) String() string {
	switch q {
	case CoreQuorum:
		return fieldCoreQuorum
	case TRCQuorum:
		return fieldTRCQuorum
	default:
		return "unknown"
	}
}

func (q Quorum) threshold(t *TRC) int64 {
	if q == TRCQuorum {
		return t.TRCQuorum
	}
	return t.CoreQuorum
}

// ValidSigners returns the sorted signers of the TRC whose signatures verify.
// Failing signers are skipped.
func (v Verifier) ValidSigners(t *TRC) []string {
	return v.validSigners(t, t)
}

func (v Verifier) validSigners(t, keys *TRC) []string {
	payload, err := t.SigningPayload()
	if err != nil {
		return nil
	}
	signers := slices.Sorted(maps.Keys(t.Signatures))
	errs := v.check(t, payload, keys, signers, false)
	var valid []string
	for i, signer := range signers {
		v.observe(Event{Kind: EventSignerChecked, TRC: t.Key(), Signer: signer, Err: errs[i]})
		if errs[i] == nil {
			valid = append(valid, signer)
		}
	}
	return valid
}

// CheckQuorum checks that at least the threshold selected by q of the TRC's
// signatures verify. A threshold of zero or less is always met.
func (v Verifier) CheckQuorum(t *TRC, q Quorum) error {
	threshold := q.threshold(t)
	if threshold <= 0 {
		return nil
	}
	valid := v.ValidSigners(t)
	if int64(len(valid)) < threshold {
		return serrors.JoinNoStack(ErrQuorumNotReached, nil, "trc", t.Key(),
			"quorum", q, "expected", threshold, "actual", len(valid))
	}
	return nil
}

// VerifyUpdate checks that next is a valid successor of prev. The update must
// be in the same ISD, increment the version by one and not be older than
// prev. All signatures of next must verify and the signers that are core ADs
// of prev must reach the core quorum of prev, using the keys of prev.
func (v Verifier) VerifyUpdate(prev, next *TRC) error {
	switch {
	case next.ISD != prev.ISD:
		return serrors.JoinNoStack(ErrInvalidUpdate, nil, "reason", "ISD mismatch",
			"expected", prev.ISD, "actual", next.ISD)
	case next.Version != prev.Version+1:
		return serrors.JoinNoStack(ErrInvalidUpdate, nil, "reason", "invalid version",
			"expected", prev.Version+1, "actual", next.Version)
	case next.Time < prev.Time:
		return serrors.JoinNoStack(ErrInvalidUpdate, nil, "reason", "time before predecessor",
			"prev", prev.Time, "next", next.Time)
	}
	if err := v.verify(next); err != nil {
		return serrors.JoinNoStack(ErrInvalidUpdate, err, "trc", next.Key())
	}
	valid := v.validSigners(next, prev)
	if int64(len(valid)) < prev.CoreQuorum {
		return serrors.JoinNoStack(ErrQuorumNotReached, nil, "trc", next.Key(),
			"predecessor", prev.Key(), "quorum", CoreQuorum,
			"expected", prev.CoreQuorum, "actual", len(valid))
	}
	return nil
}
