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

// Package trc implements the Trust Root Configuration (TRC) document of an
// isolation domain (ISD). A TRC lists the core ADs of the ISD together with
// their certificates and carries a set of detached signatures over its
// canonical JSON form.
//
// A TRC is treated as an immutable value. Constructors copy their inputs and
// no method modifies the receiver.
package trc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// MaxTRCByteLength is the maximum size of an encoded TRC.
const MaxTRCByteLength = 1 << 20

// JSON field names of a TRC.
const (
	fieldISD                = "isd_id"
	fieldVersion            = "version"
	fieldTime               = "time"
	fieldCoreQuorum         = "core_quorum"
	fieldTRCQuorum          = "trc_quorum"
	fieldCoreISPs           = "core_isps"
	fieldRootCAs            = "root_cas"
	fieldCoreADs            = "core_ads"
	fieldPolicies           = "policies"
	fieldRegistryServerAddr = "registry_server_addr"
	fieldRegistryServerCert = "registry_server_cert"
	fieldRootDNSServerAddr  = "root_dns_server_addr"
	fieldRootDNSServerCert  = "root_dns_server_cert"
	fieldTRCServerAddr      = "trc_server_addr"
	fieldSignatures         = "signatures"
)

// now is replaced in tests.
var now = time.Now

// Key identifies a TRC by ISD and version.
type Key struct {
	ISD     int64
	Version int64
}

func (k Key) String() string {
	return fmt.Sprintf("ISD%d-V%d", k.ISD, k.Version)
}

// TRC is the trust root configuration of an ISD. The zero value is the empty
// document.
type TRC struct {
	// ISD is the identifier of the isolation domain.
	ISD int64
	// Version is the version of the TRC.
	Version int64
	// Time is the creation time in unix seconds.
	Time int64
	// CoreQuorum is the number of core ADs required to sign an update.
	CoreQuorum int64
	// TRCQuorum is the number of core ADs required to sign the TRC.
	TRCQuorum int64
	// CoreISPs maps core ISP names to their descriptors.
	CoreISPs map[string]string
	// RootCAs maps root CA names to their certificates.
	RootCAs map[string]string
	// CoreADs maps core AD subjects to their base64 encoded certificates.
	CoreADs map[string]string
	// Policies contains opaque policy values.
	Policies map[string]any
	// RegistryServerAddr is the address of the registry server.
	RegistryServerAddr string
	// RegistryServerCert is the certificate of the registry server.
	RegistryServerCert string
	// RootDNSServerAddr is the address of the root DNS server.
	RootDNSServerAddr string
	// RootDNSServerCert is the certificate of the root DNS server.
	RootDNSServerCert string
	// TRCServerAddr is the address of the TRC server.
	TRCServerAddr string
	// Signatures maps signer subjects to base64 encoded detached signatures.
	Signatures map[string]string
}

// Params contains the fields of a new TRC. The creation time is set by New.
type Params struct {
	ISD                int64
	Version            int64
	CoreQuorum         int64
	TRCQuorum          int64
	CoreISPs           map[string]string
	RootCAs            map[string]string
	CoreADs            map[string]string
	Policies           map[string]any
	RegistryServerAddr string
	RegistryServerCert string
	RootDNSServerAddr  string
	RootDNSServerCert  string
	TRCServerAddr      string
	Signatures         map[string]string
}

// New creates a TRC from the parameters and stamps it with the current time.
// The inputs are copied. Signatures are taken as is, they are not computed. An
// error is returned if the document has no canonical form.
func New(p Params) (*TRC, error) {
	policies, err := copyPolicies(p.Policies)
	if err != nil {
		return nil, err
	}
	t := &TRC{
		ISD:                p.ISD,
		Version:            p.Version,
		Time:               now().Unix(),
		CoreQuorum:         p.CoreQuorum,
		TRCQuorum:          p.TRCQuorum,
		CoreISPs:           maps.Clone(p.CoreISPs),
		RootCAs:            maps.Clone(p.RootCAs),
		CoreADs:            maps.Clone(p.CoreADs),
		Policies:           policies,
		RegistryServerAddr: p.RegistryServerAddr,
		RegistryServerCert: p.RegistryServerCert,
		RootDNSServerAddr:  p.RootDNSServerAddr,
		RootDNSServerCert:  p.RootDNSServerCert,
		TRCServerAddr:      p.TRCServerAddr,
		Signatures:         maps.Clone(p.Signatures),
	}
	if _, err := t.JSON(true); err != nil {
		return nil, serrors.Wrap("invalid TRC parameters", err)
	}
	return t, nil
}

// WithSignatures returns a copy of the TRC with the signature map replaced by
// a copy of sigs.
func (t *TRC) WithSignatures(sigs map[string]string) *TRC {
	c := *t
	c.Signatures = maps.Clone(sigs)
	return &c
}

// Key returns the identifier of the TRC.
func (t *TRC) Key() Key {
	return Key{ISD: t.ISD, Version: t.Version}
}

func (t *TRC) String() string {
	return fmt.Sprintf("TRC %dv%d", t.ISD, t.Version)
}

// MarshalJSON renders the TRC including signatures.
func (t *TRC) MarshalJSON() ([]byte, error) {
	return t.JSON(true)
}

// UnmarshalJSON decodes the TRC with the same rules as Decode.
func (t *TRC) UnmarshalJSON(b []byte) error {
	d, err := Decode(b)
	if err != nil {
		return err
	}
	*t = *d
	return nil
}

// Equal reports whether both TRCs have the same canonical rendering,
// signatures included. Documents without canonical form are never equal.
func Equal(a, b *TRC) bool {
	if a == nil || b == nil {
		return a == b
	}
	ra, err := a.JSON(true)
	if err != nil {
		return false
	}
	rb, err := b.JSON(true)
	if err != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}

func copyPolicies(p map[string]any) (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	c, err := copyValue(p)
	if err != nil {
		return nil, serrors.Wrap("copying policies", err)
	}
	return c.(map[string]any), nil
}

// copyValue deep-copies the container types allowed in policies. Other types
// are rejected.
func copyValue(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(v))
		for k, e := range v {
			ce, err := copyValue(e)
			if err != nil {
				return nil, err
			}
			c[k] = ce
		}
		return c, nil
	case []any:
		c := make([]any, len(v))
		for i, e := range v {
			ce, err := copyValue(e)
			if err != nil {
				return nil, err
			}
			c[i] = ce
		}
		return c, nil
	case map[string]string:
		return maps.Clone(v), nil
	case []string:
		return append([]string(nil), v...), nil
	case nil, bool, string, json.Number, float32, float64,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	default:
		return nil, serrors.JoinNoStack(ErrUnsupportedValue, nil, "type", fmt.Sprintf("%T", v))
	}
}
