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


// Package metrics defines the metrics of TRC verification and loading.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scionproto/scion-trc/pkg/metrics/v2"
	"github.com/scionproto/scion-trc/pkg/private/prom"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
)

// Result types
const (
	Success   = prom.Success
	OkExists  = "ok_exists"
	OkIgnored = "ok_ignored"

	ErrDB            = prom.ErrDB
	ErrEncoding      = "err_encoding"
	ErrMismatch      = "err_content_mismatch"
	ErrNotClassified = prom.ErrNotClassified
	ErrNotFound      = prom.ErrNotFound
	ErrParse         = prom.ErrParse
	ErrQuorum        = "err_quorum"
	ErrValidate      = prom.ErrValidate
	ErrVerify        = prom.ErrVerify
)

// Metrics exposes TRC related metrics as functions that return counters.
type Metrics struct {
	Verifications func(result string) metrics.Counter
	SignerChecks  func(result string) metrics.Counter
	Loads         func(result string) metrics.Counter
}

// New creates the TRC metrics and registers them according to the options.
func New(opts ...metrics.Option) Metrics {
	auto := metrics.ApplyOptions(opts...).Auto()

	verifications := auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trc_verifications_total",
			Help: "Number of TRC signature verifications",
		},
		[]string{prom.LabelResult},
	)
	signerChecks := auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trc_signer_checks_total",
			Help: "Number of checked TRC signatures",
		},
		[]string{prom.LabelResult},
	)
	loads := auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trc_loads_total",
			Help: "Number of TRC files processed by the loader",
		},
		[]string{prom.LabelResult},
	)

	return Metrics{
		Verifications: func(result string) metrics.Counter {
			return verifications.WithLabelValues(result)
		},
		SignerChecks: func(result string) metrics.Counter {
			return signerChecks.WithLabelValues(result)
		},
		Loads: func(result string) metrics.Counter {
			return loads.WithLabelValues(result)
		},
	}
}

// Observer returns an observer that counts verification events.
func (m Metrics) Observer() trc.Observer {
	return trc.ObserverFunc(func(e trc.Event) {
		switch e.Kind {
		case trc.EventSignerChecked:
			if m.SignerChecks != nil {
				metrics.CounterInc(m.SignerChecks(VerifyResult(e.Err)))
			}
		case trc.EventVerified:
			if m.Verifications != nil {
				metrics.CounterInc(m.Verifications(VerifyResult(e.Err)))
			}
		}
	})
}

// VerifyResult classifies a verification error as a result label.
func VerifyResult(err error) string {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, trc.ErrQuorumNotReached):
		return ErrQuorum
	case errors.Is(err, trc.ErrInvalidUpdate):
		return ErrValidate
	case errors.Is(err, trc.ErrUnresolvedSigner):
		return ErrNotFound
	case errors.Is(err, trc.ErrSignatureInvalid):
		return ErrVerify
	case errors.Is(err, trc.ErrNonASCII), errors.Is(err, trc.ErrUnsupportedValue):
		return ErrEncoding
	case errors.Is(err, trc.ErrDecode):
		return ErrParse
	default:
		return ErrNotClassified
	}
}
