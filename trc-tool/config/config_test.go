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

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libconfig "github.com/scionproto/scion-trc/private/config"
	"github.com/scionproto/scion-trc/private/storage"
	"github.com/scionproto/scion-trc/trc-tool/config"
)

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg config.Config
	cfg.Sample(&sample, nil, libconfig.CtxMap{libconfig.ID: config.ID})

	var decoded config.Config
	require.NoError(t, libconfig.Decode(sample.Bytes(), &decoded))
	// The sample must equal the defaults.
	var defaults config.Config
	defaults.InitDefaults()
	decoded.InitDefaults()
	assert.Equal(t, defaults, decoded)
	assert.NoError(t, decoded.Validate())
}

func TestConfigDefaults(t *testing.T) {
	var cfg config.Config
	cfg.InitDefaults()
	assert.Equal(t, "info", cfg.Logging.Console.Level)
	assert.Equal(t, "human", cfg.Logging.Console.Format)
	assert.Equal(t, storage.BackendSqlite, cfg.TrustDB.Backend)
	assert.Equal(t, "/share/data/trc-tool.trust.db", cfg.TrustDB.Connection)
	assert.Equal(t, 1, cfg.Verify.Workers)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "trc-tool.toml")
	raw := `
[log.console]
level = "debug"

[trust_db]
connection = "trust.db"

[verify]
workers = 4
`
	require.NoError(t, os.WriteFile(file, []byte(raw), 0644))
	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Console.Level)
	assert.Equal(t, "trust.db", cfg.TrustDB.Connection)
	assert.Equal(t, 4, cfg.Verify.Workers)
	assert.NoError(t, cfg.Validate())

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Verify.Workers)

	require.NoError(t, os.WriteFile(file, []byte("[verify]\nthreads = 4\n"), 0644))
	_, err = config.Load(file)
	assert.Error(t, err)
}

func TestVerifyConfigValidate(t *testing.T) {
	assert.NoError(t, (&config.VerifyConfig{Workers: 1}).Validate())
	assert.Error(t, (&config.VerifyConfig{Workers: 0}).Validate())
	assert.Error(t, (&config.VerifyConfig{Workers: -2}).Validate())
}
