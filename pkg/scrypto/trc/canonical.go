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
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

const canonicalIndent = "    "

// SigningPayload returns the canonical encoding of the TRC without the
// signatures. This is the message covered by every signature.
func (t *TRC) SigningPayload() ([]byte, error) {
	return t.JSON(false)
}

// JSON returns the canonical encoding of the TRC. Object keys are sorted, the
// output is indented by four spaces and contains only ASCII characters.
func (t *TRC) JSON(withSignatures bool) ([]byte, error) {
	doc := map[string]any{
		fieldISD:                t.ISD,
		fieldVersion:            t.Version,
		fieldTime:               t.Time,
		fieldCoreQuorum:         t.CoreQuorum,
		fieldTRCQuorum:          t.TRCQuorum,
		fieldCoreISPs:           t.CoreISPs,
		fieldRootCAs:            t.RootCAs,
		fieldCoreADs:            t.CoreADs,
		fieldPolicies:           t.Policies,
		fieldRegistryServerAddr: t.RegistryServerAddr,
		fieldRegistryServerCert: t.RegistryServerCert,
		fieldRootDNSServerAddr:  t.RootDNSServerAddr,
		fieldRootDNSServerCert:  t.RootDNSServerCert,
		fieldTRCServerAddr:      t.TRCServerAddr,
	}
	if withSignatures {
		doc[fieldSignatures] = t.Signatures
	}
	var e encoder
	if err := e.value(doc, 0); err != nil {
		return nil, serrors.Wrap("encoding TRC", err, "trc", t.Key())
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) value(v any, level int) error {
	switch v := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(v))
	case string:
		return e.quote(v)
	case json.Number:
		return e.number(v)
	case int:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		e.buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(v, 10))
	case uint:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		e.buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		e.buf.WriteString(strconv.FormatUint(v, 10))
	case float32:
		return e.float(float64(v))
	case float64:
		return e.float(v)
	case map[string]any:
		return e.object(slices.Sorted(maps.Keys(v)), level, func(k string) any { return v[k] })
	case map[string]string:
		return e.object(slices.Sorted(maps.Keys(v)), level, func(k string) any { return v[k] })
	case []any:
		return e.array(len(v), level, func(i int) any { return v[i] })
	case []string:
		return e.array(len(v), level, func(i int) any { return v[i] })
	default:
		return serrors.JoinNoStack(ErrUnsupportedValue, nil, "type", fmt.Sprintf("%T", v))
	}
	return nil
}

func (e *encoder) object(keys []string, level int, get func(string) any) error {
	if len(keys) == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(level + 1)
		if err := e.quote(k); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(get(k), level+1); err != nil {
			return serrors.WrapNoStack("encoding value", err, "key", k)
		}
	}
	e.newline(level)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(n, level int, get func(int) any) error {
	if n == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(level + 1)
		if err := e.value(get(i), level+1); err != nil {
			return serrors.WrapNoStack("encoding element", err, "index", i)
		}
	}
	e.newline(level)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) newline(level int) {
	e.buf.WriteByte('\n')
	for i := 0; i < level; i++ {
		e.buf.WriteString(canonicalIndent)
	}
}

const hexDigits = "0123456789abcdef"

func (e *encoder) quote(s string) error {
	e.buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 0x80:
			return serrors.JoinNoStack(ErrNonASCII, nil, "offset", i)
		case c == '"':
			e.buf.WriteString(`\"`)
		case c == '\\':
			e.buf.WriteString(`\\`)
		case c == '\n':
			e.buf.WriteString(`\n`)
		case c == '\r':
			e.buf.WriteString(`\r`)
		case c == '\t':
			e.buf.WriteString(`\t`)
		case c == '\b':
			e.buf.WriteString(`\b`)
		case c == '\f':
			e.buf.WriteString(`\f`)
		case c < 0x20 || c == 0x7f:
			e.buf.WriteString(`\u00`)
			e.buf.WriteByte(hexDigits[c>>4])
			e.buf.WriteByte(hexDigits[c&0xf])
		default:
			e.buf.WriteByte(c)
		}
	}
	e.buf.WriteByte('"')
	return nil
}

// number renders a decoded JSON number. Integer literals keep arbitrary
// precision, everything else is rendered as a float.
func (e *encoder) number(n json.Number) error {
	s := string(n)
	if isIntegerLiteral(s) {
		var i big.Int
		if _, ok := i.SetString(s, 10); !ok {
			return serrors.JoinNoStack(ErrUnsupportedValue, nil, "number", s)
		}
		e.buf.WriteString(i.String())
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return serrors.JoinNoStack(ErrUnsupportedValue, err, "number", s)
	}
	return e.float(f)
}

func (e *encoder) float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return serrors.JoinNoStack(ErrUnsupportedValue, nil, "number", f)
	}
	e.buf.WriteString(formatFloat(f))
	return nil
}

// formatFloat returns the shortest representation of f that round-trips.
// Decimal exponents in [-4, 16) use fixed notation with at least one
// fractional digit, all others use scientific notation with a signed exponent
// of at least two digits.
func formatFloat(f float64) string {
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	var sb strings.Builder
	if f < 0 {
		sb.WriteByte('-')
		f = -f
	}
	// Scientific notation yields the shortest digits and the exponent.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.Replace(mant, ".", "", 1)

	switch {
	case exp < -4 || exp >= 16:
		sb.WriteByte(digits[0])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		if exp < 0 {
			sb.WriteByte('-')
			exp = -exp
		} else {
			sb.WriteByte('+')
		}
		if exp < 10 {
			sb.WriteByte('0')
		}
		sb.WriteString(strconv.Itoa(exp))
	case exp < 0:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -exp-1))
		sb.WriteString(digits)
	default:
		if len(digits) <= exp+1 {
			sb.WriteString(digits)
			sb.WriteString(strings.Repeat("0", exp+1-len(digits)))
			sb.WriteString(".0")
		} else {
			sb.WriteString(digits[:exp+1])
			sb.WriteByte('.')
			sb.WriteString(digits[exp+1:])
		}
	}
	return sb.String()
}

func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
