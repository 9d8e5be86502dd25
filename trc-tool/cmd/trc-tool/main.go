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

// trc-tool inspects and verifies legacy JSON TRCs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/scionproto/scion-trc/pkg/log"
	"github.com/scionproto/scion-trc/pkg/private/serrors"
	"github.com/scionproto/scion-trc/private/app/command"
	"github.com/scionproto/scion-trc/trc-tool/config"
	"github.com/scionproto/scion-trc/trc-tool/trcs"
)

// Configuration keys. Each key can be set with the environment variable
// TRC_TOOL_<KEY>, with dots replaced by underscores.
const (
	cfgConfigFile        = "config"
	cfgLogConsoleLevel   = "log.console.level"
	cfgLogConsoleFormat  = "log.console.format"
	cfgTrustDBConnection = "trust_db.connection"
	cfgVerifyWorkers     = "verify.workers"

	flagLogLevel = "log.level"
	envPrefix    = "TRC_TOOL"
)

func main() {
	executable := filepath.Base(os.Args[0])
	cmd := newRootCmd(executable)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(executable string) *cobra.Command {
	var cfg config.Config
	var v *viper.Viper
	cmd := &cobra.Command{
		Use:   executable,
		Short: "Legacy TRC inspection and verification tool",
		Args:  cobra.NoArgs,
		// Silence the errors, since we print them in main. Otherwise, cobra
		// will print any non-nil errors returned by a RunE function.
		// Commands turn off the usage message once the arguments are
		// well-formed.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(v)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}
	registerFlags(cmd.PersistentFlags())
	v = newViper(cmd.PersistentFlags())

	cmd.AddCommand(
		trcs.NewInspect(cmd),
		trcs.NewCanonical(cmd),
		trcs.NewKey(cmd),
		trcs.NewVerify(cmd, &cfg),
		trcs.NewImport(cmd, &cfg),
		newSample(cmd),
		newVersion(cmd),
		command.NewCompletion(cmd),
		command.NewGendocs(cmd),
	)
	return cmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String(cfgConfigFile, "", "Configuration file (TOML)")
	flags.String(flagLogLevel, "", "Console logging level (debug|info|error)")
}

// newViper binds the configuration keys to the flags and the environment.
func newViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	// The flags only fail to bind if they do not exist.
	_ = v.BindPFlag(cfgConfigFile, flags.Lookup(cfgConfigFile))
	_ = v.BindPFlag(cfgLogConsoleLevel, flags.Lookup(flagLogLevel))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig loads the configuration file and applies the overrides from the
// command line flags and the environment. It also sets up logging.
func loadConfig(v *viper.Viper) (config.Config, error) {
	file := v.GetString(cfgConfigFile)
	cfg, err := config.Load(file)
	if err != nil {
		return config.Config{}, err
	}
	if v.IsSet(cfgLogConsoleLevel) {
		cfg.Logging.Console.Level = v.GetString(cfgLogConsoleLevel)
	}
	if v.IsSet(cfgLogConsoleFormat) {
		cfg.Logging.Console.Format = v.GetString(cfgLogConsoleFormat)
	}
	if v.IsSet(cfgTrustDBConnection) {
		cfg.TrustDB.Connection = v.GetString(cfgTrustDBConnection)
	}
	if v.IsSet(cfgVerifyWorkers) {
		cfg.Verify.Workers = v.GetInt(cfgVerifyWorkers)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, serrors.Wrap("validating config", err, "file", file)
	}
	if err := log.Setup(cfg.Logging); err != nil {
		return config.Config{}, serrors.Wrap("initializing logging", err)
	}
	return cfg, nil
}
