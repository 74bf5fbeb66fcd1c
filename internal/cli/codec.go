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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"dirpx.dev/oid"
	"dirpx.dev/oid/ident"
	"dirpx.dev/oid/marshal"
)

func newMarshalCommand() *cobra.Command {
	var (
		tag, id, coll, user string
		transient, noVer    bool
		nest                []string
		seq, utc            uint64
	)
	cmd := &cobra.Command{
		Use:   "marshal",
		Short: "Build an identifier from its parts and print its text form",
		Example: `  oidctl marshal --tag CUS --id 42
  oidctl marshal --tag CUS --id 42 --nest ADR:home --collection lines --seq 3 --user alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := ident.Persistent
			if transient {
				state = ident.Transient
			}
			root, err := ident.NewRoot(ident.TypeTag(tag), id, state)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seq") {
				opts := []ident.VersionOption{ident.WithUser(user)}
				if cmd.Flags().Changed("utc") {
					opts = append(opts, ident.WithUTCMillis(utc))
				}
				v, err := ident.NewVersion(seq, opts...)
				if err != nil {
					return err
				}
				root = root.WithVersion(v)
			}

			var cur ident.Oid = root
			for _, n := range nest {
				t, local, ok := strings.Cut(n, string(marshal.TagSeparator))
				if !ok {
					return fmt.Errorf("--nest %q: want TAG%cLOCAL", n, marshal.TagSeparator)
				}
				if cur, err = ident.NewAggregated(cur, ident.TypeTag(t), local); err != nil {
					return err
				}
			}
			if coll != "" {
				if cur, err = ident.NewCollection(cur, coll); err != nil {
					return err
				}
			}

			text := oid.Marshal(cur)
			if noVer {
				text = oid.MarshalNoVersion(cur)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&tag, "tag", "", "root type tag")
	f.StringVar(&id, "id", "", "root identifier")
	f.BoolVar(&transient, "transient", false, "mark the root transient")
	f.StringArrayVar(&nest, "nest", nil, "nesting segment TAG:LOCAL, repeatable")
	f.StringVar(&coll, "collection", "", "collection name")
	f.Uint64Var(&seq, "seq", 0, "version sequence")
	f.StringVar(&user, "user", "", "version user")
	f.Uint64Var(&utc, "utc", 0, "version timestamp, milliseconds since the epoch")
	f.BoolVar(&noVer, "no-version", false, "omit the version")
	_ = cmd.MarkFlagRequired("tag")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// description is the structured view printed by parse.
type description struct {
	Kind      string   `yaml:"kind"`
	Text      string   `yaml:"text"`
	Transient bool     `yaml:"transient"`
	Depth     int      `yaml:"depth"`
	Path      []step   `yaml:"path"`
	Version   *version `yaml:"version,omitempty"`
}

type step struct {
	Kind       string `yaml:"kind"`
	Tag        string `yaml:"tag,omitempty"`
	ID         string `yaml:"id,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

type version struct {
	Seq  uint64     `yaml:"seq"`
	User string     `yaml:"user,omitempty"`
	UTC  *time.Time `yaml:"utc,omitempty"`
}

func describe(o ident.Oid) description {
	d := description{
		Kind:      o.Kind().String(),
		Text:      oid.Marshal(o),
		Transient: o.IsTransient(),
		Depth:     ident.Depth(o),
	}
	for _, p := range ident.Path(o) {
		s := step{Kind: p.Kind().String()}
		switch v := p.(type) {
		case ident.RootOid:
			s.Tag, s.ID = string(v.TypeTag()), v.Identifier()
		case ident.AggregatedOid:
			s.Tag, s.ID = string(v.TypeTag()), v.LocalID()
		case ident.CollectionOid:
			s.Collection = v.Name()
		}
		d.Path = append(d.Path, s)
	}
	if v, ok := o.Root().Version(); ok {
		dv := &version{Seq: v.Sequence()}
		dv.User, _ = v.User()
		if at, ok := v.Time(); ok {
			at = at.UTC()
			dv.UTC = &at
		}
		d.Version = dv
	}
	return d
}

func newParseCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse TEXT",
		Short: "Parse an identifier and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := oid.Unmarshal(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch output {
			case "text":
				_, err = fmt.Fprintf(out, "%s\t%s\n", o.Kind(), oid.Marshal(o))
			case "yaml":
				var b []byte
				if b, err = yaml.Marshal(describe(o)); err == nil {
					_, err = out.Write(b)
				}
			default:
				err = errors.New("--output must be text or yaml")
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")
	return cmd
}

func newCompareCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "compare REFERENCE AUTHORITATIVE",
		Short: "Compare the version read earlier against the current one",
		Long: `Compare classifies two identifiers by their roots: whether they name the
same object, and if so whether the version changed between them.
With --check a changed or unrelated pair exits non-zero.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := oid.Unmarshal(args[0])
			if err != nil {
				return fmt.Errorf("reference: %w", err)
			}
			auth, err := oid.Unmarshal(args[1])
			if err != nil {
				return fmt.Errorf("authoritative: %w", err)
			}
			rel := oid.Compare(ref.Root(), auth.Root())
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), rel); err != nil {
				return err
			}
			if check {
				return oid.Check(ref.Root(), auth.Root())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "fail unless the reference may be written")
	return cmd
}
