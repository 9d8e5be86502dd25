// Copyright 2016 ETH Zurich
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

// Package xtest implements common functionality for unit tests.
package xtest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenFiles registers the '-update' flag for the test.
//
// This flag should be checked by golden file tests to see whether the golden
// files should be updated or not.
//
// To update all golden files, run the following command:
//
//	go test ./... -update
//
// The flag should be registered as a package global variable:
//
//	var update = xtest.UpdateGoldenFiles()
func UpdateGoldenFiles() *bool {
	return flag.Bool("update", false, "set to regenerate the golden files")
}

// AssertGolden compares actual with the content of the golden file. If update
// is set, the golden file is overwritten with actual first.
func AssertGolden(t testing.TB, file string, actual []byte, update bool) {
	t.Helper()
	if update {
		require.NoError(t, os.WriteFile(file, actual, 0644))
	}
	expected, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual), "golden file %s", file)
}

// CopyFile copies the file src to the directory dir, keeping its base name.
// The path of the copy is returned.
func CopyFile(t testing.TB, src, dir string) string {
	t.Helper()
	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	dst := filepath.Join(dir, filepath.Base(src))
	require.NoError(t, os.WriteFile(dst, raw, 0644))
	return dst
}

// MustWriteFile writes raw to the file name in dir and returns its path.
func MustWriteFile(t testing.TB, dir, name string, raw []byte) string {
	t.Helper()
	dst := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(dst, raw, 0644))
	return dst
}
