// Copyright 2017 ETH Zurich
// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package prom contains the label names and result values shared by the
// prometheus metrics of this module.
package prom

// LabelResult is the label for result classifications. Result values start
// with "ok_" for successful and with "err_" for failed operations.
const LabelResult = "result"

const (
	Success = "ok_success"

	// ErrDB is used for failures of the storage backend.
	ErrDB = "err_db"
	// ErrNotClassified is used for errors without a known kind.
	ErrNotClassified = "err_not_classified"
	// ErrNotFound is used when a referenced document is missing.
	ErrNotFound = "err_not_found"
	// ErrParse is used when the input cannot be decoded.
	ErrParse = "err_parse"
	// ErrValidate is used when a value is decoded but not acceptable.
	ErrValidate = "err_validate"
	// ErrVerify is used when a signature check fails.
	ErrVerify = "err_verify"
)
