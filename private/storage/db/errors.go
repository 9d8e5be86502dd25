// Copyright 2019 Anapaya Systems
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

package db

import (
	"errors"

	"github.com/scionproto/scion-trc/pkg/private/prom"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// Error kinds of the storage layer. Backends attach one of them to every
// error they return, callers classify with errors.Is.
var (
	// ErrInvalidInputData indicates that the value passed to the DB cannot be
	// stored, e.g., a TRC without a canonical encoding.
	ErrInvalidInputData = serrors.New("db: input data invalid")
	// ErrDataInvalid indicates that a stored row cannot be decoded.
	ErrDataInvalid = serrors.New("db: db data invalid")
	ErrReadFailed  = serrors.New("db: read failed")
	ErrWriteFailed = serrors.New("db: write failed")
	ErrTx          = serrors.New("db: transaction error")
)

func newError(kind error, msg string, cause error, logCtx []any) error {
	return serrors.JoinNoStack(kind, cause, append([]any{"detailMsg", msg}, logCtx...)...)
}

// NewTxError returns an error for a failed transaction operation.
func NewTxError(msg string, err error, logCtx ...any) error {
	return newError(ErrTx, msg, err, logCtx)
}

// NewInputDataError returns an error for a value that cannot be stored.
func NewInputDataError(msg string, err error, logCtx ...any) error {
	return newError(ErrInvalidInputData, msg, err, logCtx)
}

// NewDataError returns an error for a stored value that cannot be decoded.
func NewDataError(msg string, err error, logCtx ...any) error {
	return newError(ErrDataInvalid, msg, err, logCtx)
}

func NewReadError(msg string, err error, logCtx ...any) error {
	return newError(ErrReadFailed, msg, err, logCtx)
}

func NewWriteError(msg string, err error, logCtx ...any) error {
	return newError(ErrWriteFailed, msg, err, logCtx)
}

// ErrToMetricLabel maps a storage error to a result label. Errors without a
// storage kind are not classified.
func ErrToMetricLabel(err error) string {
	switch {
	case err == nil:
		return prom.Success
	case errors.Is(err, ErrInvalidInputData), errors.Is(err, ErrDataInvalid):
		return prom.ErrValidate
	case errors.Is(err, ErrReadFailed), errors.Is(err, ErrWriteFailed), errors.Is(err, ErrTx):
		return prom.ErrDB
	default:
		return prom.ErrNotClassified
	}
}
