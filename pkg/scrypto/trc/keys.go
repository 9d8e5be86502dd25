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
	"encoding/json"
	"maps"
	"slices"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// SubjectPubKeyField is the certificate field that carries the public key.
const SubjectPubKeyField = "subject_pub_key"

// Certificate is the certificate of a core AD as embedded in the TRC.
type Certificate struct {
	// SubjectPubKey is the raw public key of the subject.
	SubjectPubKey []byte
	// Fields contains all fields of the certificate, including the public key.
	Fields map[string]json.RawMessage
}

// ParseCertificate decodes a base64 encoded certificate blob. The blob must
// decode to an ASCII JSON object with a base64 encoded subject_pub_key string.
func ParseCertificate(blob string) (*Certificate, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(blob)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, err, "layer", "base64")
	}
	for i, c := range raw {
		if c >= 0x80 {
			return nil, serrors.JoinNoStack(ErrMalformedCertificate, ErrNonASCII,
				"layer", "text", "offset", i)
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, err, "layer", "json")
	}
	if fields == nil {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, nil,
			"layer", "json", "reason", "not an object")
	}
	encKey, ok := fields[SubjectPubKeyField]
	if !ok {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, nil,
			"layer", "json", "reason", "missing "+SubjectPubKeyField)
	}
	var keyStr string
	if err := json.Unmarshal(encKey, &keyStr); err != nil || string(encKey) == "null" {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, err,
			"layer", "json", "reason", SubjectPubKeyField+" not a string")
	}
	key, err := base64.StdEncoding.Strict().DecodeString(keyStr)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrMalformedCertificate, err, "layer", "key")
	}
	return &Certificate{SubjectPubKey: key, Fields: fields}, nil
}

// Certificate returns the parsed certificate of the core AD subject.
func (t *TRC) Certificate(subject string) (*Certificate, error) {
	blob, ok := t.CoreADs[subject]
	if !ok {
		return nil, serrors.JoinNoStack(ErrSubjectNotFound, nil, "subject", subject)
	}
	c, err := ParseCertificate(blob)
	if err != nil {
		return nil, serrors.WrapNoStack("parsing core AD certificate", err, "subject", subject)
	}
	return c, nil
}

// PublicKey returns the raw public key of the core AD subject.
func (t *TRC) PublicKey(subject string) ([]byte, error) {
	c, err := t.Certificate(subject)
	if err != nil {
		return nil, err
	}
	return c.SubjectPubKey, nil
}

// CoreADSubjects returns the sorted subjects of all core ADs.
func (t *TRC) CoreADSubjects() []string {
	return slices.Sorted(maps.Keys(t.CoreADs))
}
