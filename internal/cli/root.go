/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/


// Package cli implements the oidctl command tree.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dirpx.dev/oid"
	"dirpx.dev/oid/config"
	"dirpx.dev/oid/internal/logging"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfgPath   string
	envFiles  []string
	logLevel  string
	logFormat string
	storeDir  string

	file config.File
	log  *zap.Logger
}

// NewRoot constructs the oidctl root command.
func NewRoot() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "oidctl",
		Short:         "Inspect, build and version object identifiers",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "YAML configuration file")
	pf.StringSliceVar(&a.envFiles, "env-file", nil, ".env files to load before reading the environment (default .env)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: json or console")

	root.AddCommand(newMarshalCommand())
	root.AddCommand(newParseCommand())
	root.AddCommand(newCompareCommand())
	root.AddCommand(newStoreCommand(a))
	return root
}

// setup loads configuration (file, then environment, then flags), installs
// it in the oid facade and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	f, err := config.Load(a.cfgPath, a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		f.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		f.Log.Format = a.logFormat
	}
	if a.storeDir != "" {
		f.Store.Dir = a.storeDir
	}
	a.file = f

	log, err := logging.NewTo(cmd.ErrOrStderr(), f.Log.Level, f.Log.Format)
	if err != nil {
		return err
	}
	a.log = log.With(zap.String("cmd", cmd.Name()))

	oid.SetConfig(f.Config())
	a.log.Debug("configuration loaded",
		zap.String("file", a.cfgPath),
		zap.Int("maxDepth", f.Codec.MaxDepth),
		zap.Int("maxLength", f.Codec.MaxLength))
	return nil
}
