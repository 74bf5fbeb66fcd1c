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


package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"dirpx.dev/oid/apis"
)

// File is the on-disk configuration read by binaries such as oidctl.
// Libraries take an apis.Config instead; File.Config converts.
type File struct {
	Codec CodecSection `yaml:"codec"`
	Types TypesSection `yaml:"types"`
	Store StoreSection `yaml:"store"`
	Log   LogSection   `yaml:"log"`
}

// CodecSection holds unmarshal limits.
type CodecSection struct {
	MaxDepth  int `yaml:"maxDepth"`
	MaxLength int `yaml:"maxLength"`
}

// TypesSection holds type-tag resolution knobs.
type TypesSection struct {
	IncludeBuiltins bool `yaml:"includeBuiltins"`
	MaxUnwrap       int  `yaml:"maxUnwrap"`
	MapPreferElem   bool `yaml:"mapPreferElem"`
}

// StoreSection configures the version store.
type StoreSection struct {
	// Dir is the Pebble data directory.
	Dir string `yaml:"dir"`
	// Sync forces a WAL sync on every write.
	Sync bool `yaml:"sync"`
}

// LogSection configures the process logger.
type LogSection struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// DefaultFile returns the configuration used when no file is given.
func DefaultFile() File {
	return File{
		Codec: CodecSection{
			MaxDepth:  DefaultMaxDepth,
			MaxLength: DefaultMaxLength,
		},
		Types: TypesSection{
			IncludeBuiltins: DefaultIncludeBuiltins,
			MaxUnwrap:       DefaultMaxUnwrap,
			MapPreferElem:   DefaultMapPreferElem,
		},
		Store: StoreSection{
			Dir:  "oid-data",
			Sync: true,
		},
		Log: LogSection{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFile reads a YAML file over DefaultFile. An empty path returns the defaults.
func LoadFile(path string) (File, error) {
	f := DefaultFile()
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("oid(config): read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return File{}, fmt.Errorf("oid(config): parse %s: %w", path, err)
	}
	return f, nil
}

// Options returns the functional options equivalent to f.
func (f File) Options() []Option {
	return []Option{
		WithMaxDepth(f.Codec.MaxDepth),
		WithMaxLength(f.Codec.MaxLength),
		WithIncludeBuiltins(f.Types.IncludeBuiltins),
		WithMaxUnwrap(f.Types.MaxUnwrap),
		WithMapPreferElem(f.Types.MapPreferElem),
	}
}

// Config converts f into the library configuration.
func (f File) Config() apis.Config {
	return NewConfig(f.Options()...)
}
