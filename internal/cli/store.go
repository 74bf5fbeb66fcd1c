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


package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dirpx.dev/oid"
	"dirpx.dev/oid/ident"
	"dirpx.dev/oid/internal/versionstore"
)

func newStoreCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Work with the local version store",
	}
	cmd.PersistentFlags().StringVar(&a.storeDir, "store-dir", "", "version store directory (overrides config)")

	var (
		user string
		utc  uint64
	)
	stamp := func(c *cobra.Command) time.Time {
		if c.Flags().Changed("utc") {
			return time.UnixMilli(int64(utc))
		}
		return time.Now()
	}
	writeFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&user, "user", "", "user recorded in the new version")
		c.Flags().Uint64Var(&utc, "utc", 0, "timestamp recorded in the new version, milliseconds since the epoch (default now)")
	}

	touch := &cobra.Command{
		Use:   "touch ROOT",
		Short: "Record a write, creating version 1 or bumping the sequence",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(c *cobra.Command, s *versionstore.Store, r ident.RootOid) error {
			next, err := s.Touch(c.Context(), r, user, stamp(c))
			if err != nil {
				return err
			}
			return printLine(c, oid.Marshal(next))
		}),
	}
	writeFlags(touch)

	update := &cobra.Command{
		Use:   "update ROOT",
		Short: "Write only if ROOT carries the current version",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(c *cobra.Command, s *versionstore.Store, r ident.RootOid) error {
			next, err := s.Update(c.Context(), r, user, stamp(c))
			if err != nil {
				return err
			}
			return printLine(c, oid.Marshal(next))
		}),
	}
	writeFlags(update)

	check := &cobra.Command{
		Use:   "check ROOT",
		Short: "Compare ROOT against the stored version",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(c *cobra.Command, s *versionstore.Store, r ident.RootOid) error {
			rel, err := s.Check(r)
			if err != nil {
				return err
			}
			return printLine(c, rel.String())
		}),
	}

	get := &cobra.Command{
		Use:   "get ROOT",
		Short: "Print the stored root with its version",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(c *cobra.Command, s *versionstore.Store, r ident.RootOid) error {
			cur, err := s.Current(r)
			if err != nil {
				return err
			}
			return printLine(c, oid.Marshal(cur))
		}),
	}

	forget := &cobra.Command{
		Use:   "forget ROOT",
		Short: "Delete the stored record",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(c *cobra.Command, s *versionstore.Store, r ident.RootOid) error {
			return s.Forget(c.Context(), r)
		}),
	}

	list := &cobra.Command{
		Use:   "list [TAG]",
		Short: "List stored roots, optionally only those with TAG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var tag ident.TypeTag
			if len(args) == 1 {
				if tag, err = ident.NewTypeTag(args[0]); err != nil {
					return err
				}
			}
			roots, err := s.List(tag)
			if err != nil {
				return err
			}
			for _, r := range roots {
				if err := printLine(c, oid.Marshal(r)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(touch, update, check, get, forget, list)
	return cmd
}

func (a *app) openStore() (*versionstore.Store, error) {
	return versionstore.Open(versionstore.Options{
		Dir:    a.file.Store.Dir,
		Sync:   a.file.Store.Sync,
		Logger: a.log,
	})
}

// withStore parses the ROOT argument and runs fn against an open store.
func (a *app) withStore(fn func(*cobra.Command, *versionstore.Store, ident.RootOid) error) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		r, err := oid.UnmarshalRoot(args[0])
		if err != nil {
			return err
		}
		s, err := a.openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(c, s, r)
	}
}

func printLine(c *cobra.Command, s string) error {
	_, err := fmt.Fprintln(c.OutOrStdout(), s)
	return err
}
