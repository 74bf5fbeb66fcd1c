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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override File values.
const (
	EnvMaxDepth  = "OID_MAX_DEPTH"
	EnvMaxLength = "OID_MAX_LENGTH"
	EnvStoreDir  = "OID_STORE_DIR"
	EnvLogLevel  = "OID_LOG_LEVEL"
	EnvLogFormat = "OID_LOG_FORMAT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("oid(config): load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields of f from the environment.
func (f *File) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvMaxDepth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("oid(config): %s: %w", EnvMaxDepth, err)
		}
		f.Codec.MaxDepth = n
	}
	if v, ok := lookup(EnvMaxLength); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("oid(config): %s: %w", EnvMaxLength, err)
		}
		f.Codec.MaxLength = n
	}
	if v, ok := lookup(EnvStoreDir); ok && v != "" {
		f.Store.Dir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		f.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		f.Log.Format = v
	}
	return nil
}

// Load reads the optional .env files, then the YAML file at path, then
// applies environment overrides.
func Load(path string, envFiles ...string) (File, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return File{}, err
	}
	f, err := LoadFile(path)
	if err != nil {
		return File{}, err
	}
	if err := f.ApplyEnv(os.LookupEnv); err != nil {
		return File{}, err
	}
	return f, nil
}
