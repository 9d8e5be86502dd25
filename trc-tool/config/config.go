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

// Package config defines the configuration of the trc-tool.
package config

import (
	"io"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/private/config"
	"github.com/scionproto/scion-trc/private/storage"
)

// ID is the instance identifier used for the default paths.
const ID = "trc-tool"

var _ config.Config = (*Config)(nil)

// Config is the trc-tool configuration.
type Config struct {
	Logging log.Config       `toml:"log,omitempty"`
	TrustDB storage.DBConfig `toml:"trust_db,omitempty"`
	Verify  VerifyConfig     `toml:"verify,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.Logging,
		cfg.TrustDB.WithDefault(storage.SetID(storage.SampleTrustDB, ID).Connection),
		&cfg.Verify,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.Logging,
		&cfg.TrustDB,
		&cfg.Verify,
	)
}

// Sample generates a sample config file for the trc-tool.
func (cfg *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx,
		&cfg.Logging,
		&cfg.TrustDB,
		&cfg.Verify,
	)
}

// Load loads the config from file, if one is given, and initializes the
// defaults. The config is not validated.
func Load(file string) (Config, error) {
	var cfg Config
	if file != "" {
		if err := config.LoadFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.InitDefaults()
	return cfg, nil
}

var _ config.Config = (*VerifyConfig)(nil)

// VerifyConfig configures TRC verification.
type VerifyConfig struct {
	// Workers is the number of signatures checked concurrently. A value of 1
	// checks the signatures sequentially.
	Workers int `toml:"workers,omitempty"`
}

// InitDefaults sets the workers to 1 if unset.
func (cfg *VerifyConfig) InitDefaults() {
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
}

// Validate checks that the number of workers is positive.
func (cfg *VerifyConfig) Validate() error {
	if cfg.Workers < 1 {
		return serrors.New("workers must be positive", "workers", cfg.Workers)
	}
	return nil
}

// Sample writes the sample configuration to the dst writer.
func (cfg *VerifyConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, verifySample)
}

// ConfigName returns the name this config should have in a TOML file.
func (cfg *VerifyConfig) ConfigName() string {
	return "verify"
}

const verifySample = `
# The number of signatures that are checked concurrently. With 1, the
# signatures are checked one after the other. (default 1)
workers = 1
`
