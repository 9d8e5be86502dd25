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

// Package storage provides factories for the application storage backends.
package storage

import (
	"fmt"
	"io"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/private/config"
	"github.com/scionproto/scion-trc/private/storage/db"
	truststorage "github.com/scionproto/scion-trc/private/storage/trust"
	sqlitetrustdb "github.com/scionproto/scion-trc/private/storage/trust/sqlite"
)

// Backend indicates the database backend type.
type Backend string

const (
	// BackendSqlite indicates an sqlite backend.
	BackendSqlite Backend = "sqlite"
	// DefaultTrustDBPath is the default connection string of the trust DB. The
	// placeholder is replaced by the instance ID.
	DefaultTrustDBPath = "/share/data/%s.trust.db"
)

// SampleTrustDB is the sample configuration of the trust DB.
var SampleTrustDB = DBConfig{
	Connection: DefaultTrustDBPath,
}

// SetID returns a clone of the configuration that has the ID set on the connection string.
func SetID(cfg DBConfig, id string) *DBConfig {
	cfg.Connection = fmt.Sprintf(cfg.Connection, id)
	return &cfg
}

var _ (config.Config) = (*DBConfig)(nil)

// DBConfig is the configuration for the connection to a database.
type DBConfig struct {
	Backend      Backend `toml:"backend,omitempty"`
	Connection   string  `toml:"connection,omitempty"`
	MaxOpenConns int     `toml:"max_open_conns,omitempty"`
	MaxIdleConns int     `toml:"max_idle_conns,omitempty"`
}

type writeDefault struct {
	*DBConfig
	defaultPath string
}

func (w writeDefault) InitDefaults() {
	w.DBConfig.InitDefaults()
	if w.Connection == "" {
		w.Connection = w.defaultPath
	}
}

// WithDefault returns a defaulter that sets the connection to path if it is
// empty.
func (cfg *DBConfig) WithDefault(path string) config.Defaulter {
	return writeDefault{DBConfig: cfg, defaultPath: path}
}

// InitDefaults sets the backend to sqlite if it is empty.
func (cfg *DBConfig) InitDefaults() {
	if cfg.Backend == "" {
		cfg.Backend = BackendSqlite
	}
}

// Validate checks that the backend is supported and a connection is set.
func (cfg *DBConfig) Validate() error {
	if cfg.Backend != BackendSqlite {
		return serrors.New("unsupported backend", "backend", cfg.Backend)
	}
	if cfg.Connection == "" {
		return serrors.New("empty connection", "backend", cfg.Backend)
	}
	if cfg.MaxOpenConns < 0 || cfg.MaxIdleConns < 0 {
		return serrors.New("negative connection limit",
			"max_open_conns", cfg.MaxOpenConns, "max_idle_conns", cfg.MaxIdleConns)
	}
	return nil
}

// Sample writes a config sample to the writer.
func (cfg *DBConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	conn := fmt.Sprintf(DefaultTrustDBPath, ctx[config.ID])
	config.WriteString(dst, fmt.Sprintf(trustDBSample, conn))
}

// ConfigName is the key in the toml file.
func (cfg *DBConfig) ConfigName() string {
	return "trust_db"
}

// SqliteConfig returns the connection limits as sqlite configuration. Limits
// of 0 mean the defaults will be used.
func (cfg *DBConfig) SqliteConfig() *db.SqliteConfig {
	return &db.SqliteConfig{
		MaxOpenReadConns: cfg.MaxOpenConns,
		MaxIdleReadConns: cfg.MaxIdleConns,
	}
}

// NewTrustStorage opens the trust DB described by the configuration.
func NewTrustStorage(c DBConfig) (truststorage.DB, error) {
	if c.Backend == "" {
		c.Backend = BackendSqlite
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log.Info("Connecting TrustDB", "backend", c.Backend, "connection", c.Connection)
	return sqlitetrustdb.New(c.Connection, c.SqliteConfig())
}
