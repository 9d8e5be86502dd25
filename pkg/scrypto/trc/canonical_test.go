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

package trc_test

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scionproto/scion-trc/pkg/private/xtest"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc"
	"github.com/scionproto/scion-trc/pkg/scrypto/trc/trctest"
)

// The golden files were generated with Python's
// json.dumps(d, sort_keys=True, indent=4).
func TestJSONGolden(t *testing.T) {
	for _, name := range []string{"ISD1-V0", "ISD1-V1"} {
		t.Run(name, func(t *testing.T) {
			doc, err := trc.LoadFile(filepath.Join("testdata", name+".trc"))
			require.NoError(t, err)

			payload, err := doc.SigningPayload()
			require.NoError(t, err)
			full, err := doc.JSON(true)
			require.NoError(t, err)

			xtest.AssertGolden(t, filepath.Join("testdata", name+".payload.golden"),
				payload, *update)
			xtest.AssertGolden(t, filepath.Join("testdata", name+".json.golden"), full, *update)
		})
	}
}

func TestJSONEmpty(t *testing.T) {
	expected := `{
    "core_ads": {},
    "core_isps": {},
    "core_quorum": 0,
    "isd_id": 0,
    "policies": {},
    "registry_server_addr": "",
    "registry_server_cert": "",
    "root_cas": {},
    "root_dns_server_addr": "",
    "root_dns_server_cert": "",
    "time": 0,
    "trc_quorum": 0,
    "trc_server_addr": "",
    "version": 0
}`
	payload, err := (&trc.TRC{}).SigningPayload()
	require.NoError(t, err)
	assert.Equal(t, expected, string(payload))

	full, err := (&trc.TRC{}).JSON(true)
	require.NoError(t, err)
	assert.Contains(t, string(full), `"signatures": {},`)
}

func TestSigningPayloadExcludesSignatures(t *testing.T) {
	signers := []trctest.Signer{trctest.NewSigner("1-11", 1), trctest.NewSigner("1-12", 2)}
	unsigned := trctest.New(t, trctest.Params(signers...))
	signed := trctest.Sign(t, unsigned, signers...)

	a, err := unsigned.SigningPayload()
	require.NoError(t, err)
	b, err := signed.SigningPayload()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotContains(t, string(b), "signatures")

	full, err := signed.JSON(true)
	require.NoError(t, err)
	assert.Contains(t, string(full), `"signatures": {`)
}

func TestJSONDeterministic(t *testing.T) {
	p := trctest.Params(trctest.NewSigner("1-11", 1), trctest.NewSigner("1-12", 2),
		trctest.NewSigner("1-13", 3))
	a := trctest.New(t, p)
	first, err := a.JSON(true)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		// Rebuild the maps to get a different insertion order.
		q := p
		q.CoreADs = make(map[string]string)
		for _, k := range []string{"1-13", "1-11", "1-12"} {
			q.CoreADs[k] = p.CoreADs[k]
		}
		b, err := trc.New(q)
		require.NoError(t, err)
		b.Time = a.Time
		again, err := b.JSON(true)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestEncodeValue(t *testing.T) {
	testCases := map[string]struct {
		value    any
		expected string
	}{
		"integer":        {value: 42, expected: "42"},
		"negative int64": {value: int64(-7), expected: "-7"},
		"uint64":         {value: uint64(math.MaxUint64), expected: "18446744073709551615"},
		"float one":      {value: 1.0, expected: "1.0"},
		"float tenth":    {value: 0.1, expected: "0.1"},
		"negative float": {value: -2.5, expected: "-2.5"},
		"float 1e16":     {value: 1e16, expected: "1e+16"},
		"float 1e-5":     {value: 1e-5, expected: "1e-05"},
		"float 1e-4":     {value: 0.0001, expected: "0.0001"},
		"float fraction": {value: 123456789.125, expected: "123456789.125"},
		"float 1e22":     {value: 1e22, expected: "1e+22"},
		"float min":      {value: 5e-324, expected: "5e-324"},
		"float max":      {value: math.MaxFloat64, expected: "1.7976931348623157e+308"},
		"float -1e-7":    {value: -1e-7, expected: "-1e-07"},
		"float hundred":  {value: 100.0, expected: "100.0"},
		"float pi":       {value: 3.14159, expected: "3.14159"},
		"negative zero":  {value: math.Copysign(0, -1), expected: "-0.0"},
		"number int": {
			value:    json.Number("123456789012345678901234567890"),
			expected: "123456789012345678901234567890",
		},
		"number neg zero": {value: json.Number("-0"), expected: "0"},
		"number float":    {value: json.Number("2.50E-7"), expected: "2.5e-07"},
		"number scaled":   {value: json.Number("100000e-2"), expected: "1000.0"},
		"escapes": {
			value:    "a\"b\\c\n\r\t\b\f\x00\x1f\x7f/~ ",
			expected: `"a\"b\\c\n\r\t\b\f\u0000\u001f\u007f/~ "`,
		},
		"bool":  {value: true, expected: "true"},
		"null":  {value: nil, expected: "null"},
		"empty": {value: []any{}, expected: "[]"},
		"nested": {
			value: map[string]any{
				"b": []any{1, map[string]any{"x": []string{}}, nil, true},
				"a": map[string]string{},
			},
			expected: `{
    "a": {},
    "b": [
        1,
        {
            "x": []
        },
        null,
        true
    ]
}`,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			raw, err := trc.EncodeValue(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(raw))
		})
	}
}

func TestEncodeValueErrors(t *testing.T) {
	testCases := map[string]struct {
		value any
		errIs error
	}{
		"non-ASCII value":     {value: "café", errIs: trc.ErrNonASCII},
		"non-ASCII key":       {value: map[string]any{"über": 1}, errIs: trc.ErrNonASCII},
		"nested non-ASCII":    {value: []any{"ok", []string{"☃"}}, errIs: trc.ErrNonASCII},
		"NaN":                 {value: math.NaN(), errIs: trc.ErrUnsupportedValue},
		"infinity":            {value: math.Inf(-1), errIs: trc.ErrUnsupportedValue},
		"number out of range": {value: json.Number("1E400"), errIs: trc.ErrUnsupportedValue},
		"struct":              {value: struct{}{}, errIs: trc.ErrUnsupportedValue},
		"bytes":               {value: []byte("raw"), errIs: trc.ErrUnsupportedValue},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := trc.EncodeValue(tc.value)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}
