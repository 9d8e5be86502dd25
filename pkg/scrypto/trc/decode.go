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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// Decode parses a JSON encoded TRC. All fields must be present with the
// expected JSON type. Unknown fields are ignored. The decoded document must
// have a canonical form, i.e., all strings must be ASCII.
func Decode(raw []byte) (*TRC, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, serrors.JoinNoStack(ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, serrors.JoinNoStack(ErrDecode, nil, "reason", "trailing data")
	}
	if obj == nil {
		return nil, serrors.JoinNoStack(ErrDecode, nil, "reason", "not an object")
	}
	d := fieldDecoder{obj: obj}
	t := &TRC{
		ISD:                d.integer(fieldISD),
		Version:            d.integer(fieldVersion),
		Time:               d.integer(fieldTime),
		CoreQuorum:         d.integer(fieldCoreQuorum),
		TRCQuorum:          d.integer(fieldTRCQuorum),
		CoreISPs:           d.stringMap(fieldCoreISPs),
		RootCAs:            d.stringMap(fieldRootCAs),
		CoreADs:            d.stringMap(fieldCoreADs),
		Policies:           d.object(fieldPolicies),
		RegistryServerAddr: d.str(fieldRegistryServerAddr),
		RegistryServerCert: d.str(fieldRegistryServerCert),
		RootDNSServerAddr:  d.str(fieldRootDNSServerAddr),
		RootDNSServerCert:  d.str(fieldRootDNSServerCert),
		TRCServerAddr:      d.str(fieldTRCServerAddr),
		Signatures:         d.stringMap(fieldSignatures),
	}
	if d.err != nil {
		return nil, d.err
	}
	if _, err := t.JSON(true); err != nil {
		return nil, serrors.JoinNoStack(ErrDecode, err)
	}
	return t, nil
}

// DecodeLegacy parses a JSON encoded TRC. On failure, the error is logged and
// the empty document is returned.
func DecodeLegacy(raw []byte, logger log.Logger) *TRC {
	t, err := Decode(raw)
	if err != nil {
		if logger != nil {
			logger.Error("TRC: JSON format error.", "err", err)
		}
		return &TRC{}
	}
	return t
}

// Read reads and decodes a TRC from r. At most MaxTRCByteLength bytes are
// accepted.
func Read(r io.Reader) (*TRC, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxTRCByteLength+1))
	if err != nil {
		return nil, serrors.Wrap("reading TRC", err)
	}
	if len(raw) > MaxTRCByteLength {
		return nil, serrors.New("TRC too large", "max", MaxTRCByteLength)
	}
	return Decode(raw)
}

// LoadFile reads and decodes the TRC stored in the file.
func LoadFile(file string) (*TRC, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, serrors.Wrap("opening TRC file", err, "file", file)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, serrors.Wrap("loading TRC file", err, "file", file)
	}
	return t, nil
}

// fieldDecoder extracts typed fields from a decoded JSON object. The first
// error is kept and all later calls return zero values.
type fieldDecoder struct {
	obj map[string]any
	err error
}

func (d *fieldDecoder) field(name string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := d.obj[name]
	if !ok {
		d.err = serrors.JoinNoStack(ErrDecode, nil, "field", name, "reason", "missing")
		return nil, false
	}
	if v == nil {
		d.err = serrors.JoinNoStack(ErrDecode, nil, "field", name, "reason", "null")
		return nil, false
	}
	return v, true
}

func (d *fieldDecoder) typeErr(name, expected string) {
	d.err = serrors.JoinNoStack(ErrDecode, nil, "field", name, "expected", expected)
}

func (d *fieldDecoder) integer(name string) int64 {
	v, ok := d.field(name)
	if !ok {
		return 0
	}
	n, ok := v.(json.Number)
	if !ok || !isIntegerLiteral(string(n)) {
		d.typeErr(name, "integer")
		return 0
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		d.err = serrors.JoinNoStack(ErrDecode, err, "field", name)
		return 0
	}
	return i
}

func (d *fieldDecoder) str(name string) string {
	v, ok := d.field(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.typeErr(name, "string")
		return ""
	}
	return s
}

func (d *fieldDecoder) object(name string) map[string]any {
	v, ok := d.field(name)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.typeErr(name, "object")
		return nil
	}
	return m
}

func (d *fieldDecoder) stringMap(name string) map[string]string {
	m := d.object(name)
	if m == nil {
		return nil
	}
	r := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			d.err = serrors.JoinNoStack(ErrDecode, nil,
				"field", name, "key", k, "expected", "string")
			return nil
		}
		r[k] = s
	}
	return r
}
