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

import "github.com/scionproto/scion-trc/pkg/private/serrors"

var (
	// ErrDecode indicates the document is not well-formed JSON or does not
	// have the expected shape.
	ErrDecode = serrors.New("malformed TRC")
	// ErrSubjectNotFound indicates the subject is not a core AD of the TRC.
	ErrSubjectNotFound = serrors.New("subject not found in core ADs")
	// ErrMalformedCertificate indicates the certificate blob of a core AD
	// could not be decoded to a public key.
	ErrMalformedCertificate = serrors.New("malformed certificate")
	// ErrUnresolvedSigner indicates the key of a signer could not be resolved.
	ErrUnresolvedSigner = serrors.New("unresolved signer")
	// ErrSignatureInvalid indicates a signature did not verify.
	ErrSignatureInvalid = serrors.New("invalid signature")
	// ErrNonASCII indicates a string contains non-ASCII bytes and therefore
	// has no canonical form.
	ErrNonASCII = serrors.New("non-ASCII string")
	// ErrUnsupportedValue indicates a value that has no canonical JSON
	// representation.
	ErrUnsupportedValue = serrors.New("unsupported value")
	// ErrQuorumNotReached indicates that not enough signatures verified.
	ErrQuorumNotReached = serrors.New("quorum not reached")
	// ErrInvalidUpdate indicates the TRC is not a valid successor.
	ErrInvalidUpdate = serrors.New("invalid TRC update")
)
