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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libconfig "github.com/scionproto/scion-trc/private/config"
	"github.com/scionproto/scion-trc/trc-tool/config"
)

const fixtures = "../../../pkg/scrypto/trc/testdata"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("trc-tool")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newRootCmdViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	flags := pflag.NewFlagSet("trc-tool", pflag.ContinueOnError)
	registerFlags(flags)
	require.NoError(t, flags.Parse(args))
	return newViper(flags)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trc-tool version information")
	assert.Contains(t, out, "Go version:")
}

func TestSample(t *testing.T) {
	out, err := execute(t, "sample")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, libconfig.Decode([]byte(out), &cfg))
	cfg.InitDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "/share/data/trc-tool.trust.db", cfg.TrustDB.Connection)
}

func TestVerifyCommand(t *testing.T) {
	v0 := filepath.Join(fixtures, "ISD1-V0.trc")
	v1 := filepath.Join(fixtures, "ISD1-V1.trc")

	out, err := execute(t, "verify", v0)
	require.NoError(t, err)
	assert.Contains(t, out, "Verified TRC successfully: TRC 1v0")

	out, err = execute(t, "verify", "--quorum", "trc", "--predecessor", v0, v1)
	require.NoError(t, err)
	assert.Contains(t, out, "Updates: TRC 1v0")

	out, err = execute(t, "verify", "--predecessor", v1, v0)
	assert.Error(t, err)
	assert.Contains(t, out, "Verification failed")

	_, err = execute(t, "verify", "--quorum", "most", v0)
	assert.Error(t, err)
}

func TestConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "trc-tool.toml")
	raw := "[trust_db]\nconnection = \"" + filepath.Join(dir, "file.db") + "\"\n"
	require.NoError(t, os.WriteFile(file, []byte(raw), 0644))

	t.Run("config file", func(t *testing.T) {
		v := newRootCmdViper(t, "--config", file)
		cfg, err := loadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "file.db"), cfg.TrustDB.Connection)
		assert.Equal(t, "info", cfg.Logging.Console.Level)
	})
	t.Run("environment", func(t *testing.T) {
		t.Setenv("TRC_TOOL_TRUST_DB_CONNECTION", filepath.Join(dir, "env.db"))
		t.Setenv("TRC_TOOL_VERIFY_WORKERS", "3")
		v := newRootCmdViper(t, "--config", file)
		cfg, err := loadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "env.db"), cfg.TrustDB.Connection)
		assert.Equal(t, 3, cfg.Verify.Workers)
	})
	t.Run("flag", func(t *testing.T) {
		t.Setenv("TRC_TOOL_LOG_CONSOLE_LEVEL", "error")
		v := newRootCmdViper(t, "--log.level", "debug")
		cfg, err := loadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Console.Level)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := execute(t, "--log.level", "verbose", "version")
		assert.Error(t, err)
		_, err = execute(t, "--config", filepath.Join(dir, "missing.toml"), "version")
		assert.Error(t, err)
	})
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	trcs := filepath.Join(dir, "trcs")
	require.NoError(t, os.Mkdir(trcs, 0755))
	for _, name := range []string{"ISD1-V0.trc", "ISD1-V1.trc"} {
		raw, err := os.ReadFile(filepath.Join(fixtures, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(trcs, name), raw, 0644))
	}
	t.Setenv("TRC_TOOL_TRUST_DB_CONNECTION", filepath.Join(dir, "trust.db"))

	out, err := execute(t, "import", "--metrics", trcs)
	require.NoError(t, err)
	assert.Contains(t, out, "2 loaded, 0 ignored")
	assert.Contains(t, out, `trc_loads_total{result="ok_success"} 2`)

	out, err = execute(t, "import", trcs)
	require.NoError(t, err)
	assert.Contains(t, out, "0 loaded, 2 ignored")
}
