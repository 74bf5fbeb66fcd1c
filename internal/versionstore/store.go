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


package versionstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"

	"dirpx.dev/oid/concurrency"
	"dirpx.dev/oid/ident"
	"dirpx.dev/oid/marshal"
)

var (
	// ErrNotFound is returned when no record exists for a root.
	ErrNotFound = errors.New("oid(versionstore): no record for identifier")
	// ErrTransient is returned for transient roots, which are never stored.
	ErrTransient = errors.New("oid(versionstore): transient identifiers are not stored")
	// ErrCorrupt is returned when a stored record does not parse.
	ErrCorrupt = errors.New("oid(versionstore): corrupt record")
)

// keyPrefix namespaces records inside the database.
const keyPrefix = "oid/"

// Options configures a Store.
type Options struct {
	// Dir is the Pebble database directory. Required.
	Dir string
	// Sync requests a WAL fsync on every write.
	Sync bool
	// FS overrides the filesystem, e.g. vfs.NewMem() in tests.
	FS vfs.FS
	// Logger receives write and conflict events. Nil disables logging.
	Logger *zap.Logger
}

// Store keeps the authoritative version of persistent roots.
//
// Each record is keyed by the unversioned text of the root and holds the
// versioned text, so the stored value parses back to the authoritative
// root directly. Writes are serialized; reads go straight to Pebble.
type Store struct {
	db  *pebble.DB
	wo  *pebble.WriteOptions
	log *zap.Logger
	mar *marshal.Marshaller
	// mu serializes read-modify-write sequences.
	mu sync.Mutex
}

// Open creates or opens the store at opts.Dir.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("oid(versionstore): Options.Dir is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	po := &pebble.Options{Logger: pebbleLogger{log.Sugar()}}
	if opts.FS != nil {
		po.FS = opts.FS
	}
	db, err := pebble.Open(opts.Dir, po)
	if err != nil {
		return nil, fmt.Errorf("oid(versionstore): open %s: %w", opts.Dir, err)
	}

	wo := pebble.NoSync
	if opts.Sync {
		wo = pebble.Sync
	}
	log.Info("version store opened", zap.String("dir", opts.Dir), zap.Bool("sync", opts.Sync))
	return &Store{db: db, wo: wo, log: log, mar: marshal.Default()}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.log.Info("version store closed", zap.Error(err))
	return err
}

func (s *Store) key(root ident.RootOid) ([]byte, error) {
	if root.IsTransient() {
		return nil, ErrTransient
	}
	if root.IsZero() {
		return nil, fmt.Errorf("%w: zero root", ErrNotFound)
	}
	return []byte(keyPrefix + s.mar.MarshalNoVersion(root)), nil
}

// Current returns the stored root, carrying its authoritative version.
func (s *Store) Current(root ident.RootOid) (ident.RootOid, error) {
	k, err := s.key(root)
	if err != nil {
		return ident.RootOid{}, err
	}
	return s.get(k)
}

func (s *Store) get(k []byte) (ident.RootOid, error) {
	val, closer, err := s.db.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return ident.RootOid{}, fmt.Errorf("%w: %s", ErrNotFound, k[len(keyPrefix):])
	}
	if err != nil {
		return ident.RootOid{}, err
	}
	defer closer.Close()
	return s.decode(val)
}

func (s *Store) decode(val []byte) (ident.RootOid, error) {
	r, err := s.mar.UnmarshalRoot(string(val))
	if err != nil {
		return ident.RootOid{}, errors.Join(ErrCorrupt, err)
	}
	return r, nil
}

// Touch records a write to root by user at time at: the first write
// creates version 1, later ones bump the sequence. It returns the stored
// root. A zero at leaves the timestamp out.
func (s *Store) Touch(ctx context.Context, root ident.RootOid, user string, at time.Time) (ident.RootOid, error) {
	k, err := s.key(root)
	if err != nil {
		return ident.RootOid{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev ident.Version
	cur, err := s.get(k)
	switch {
	case err == nil:
		prev, _ = cur.Version()
	case !errors.Is(err, ErrNotFound):
		return ident.RootOid{}, err
	}
	return s.put(ctx, k, root, prev.Next(user, at))
}

// Check compares ref against the stored version.
func (s *Store) Check(ref ident.RootOid) (concurrency.Relation, error) {
	cur, err := s.Current(ref)
	if err != nil {
		return concurrency.NotEquivalent, err
	}
	return concurrency.Compare(ref, cur), nil
}

// Update performs an optimistic write: it bumps the stored version only
// when ref was read at the current version (or carries no version at all).
// Otherwise it returns the *concurrency.ConflictError from
// concurrency.Check and leaves the record untouched.
func (s *Store) Update(ctx context.Context, ref ident.RootOid, user string, at time.Time) (ident.RootOid, error) {
	k, err := s.key(ref)
	if err != nil {
		return ident.RootOid{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.get(k)
	if err != nil {
		return ident.RootOid{}, err
	}
	if err := concurrency.Check(ref, cur); err != nil {
		s.log.Warn("rejected concurrent update",
			zap.String("oid", s.mar.Marshal(ref)),
			zap.String("current", s.mar.Marshal(cur)),
			zap.Stringer("relation", concurrency.Compare(ref, cur)))
		return ident.RootOid{}, err
	}
	v, _ := cur.Version()
	return s.put(ctx, k, ref, v.Next(user, at))
}

func (s *Store) put(ctx context.Context, k []byte, root ident.RootOid, v ident.Version) (ident.RootOid, error) {
	if err := ctx.Err(); err != nil {
		return ident.RootOid{}, err
	}
	next := root.WithVersion(v)
	text := s.mar.Marshal(next)
	if err := s.db.Set(k, []byte(text), s.wo); err != nil {
		return ident.RootOid{}, err
	}
	s.log.Debug("version stored", zap.String("oid", text), zap.Uint64("seq", v.Sequence()))
	return next, nil
}

// Forget deletes the record for root. Deleting a missing record is not an error.
func (s *Store) Forget(ctx context.Context, root ident.RootOid) error {
	k, err := s.key(root)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Delete(k, s.wo); err != nil {
		return err
	}
	s.log.Debug("version forgotten", zap.ByteString("key", k))
	return nil
}

// List returns the stored roots with the given tag in key order.
// An empty tag lists every record.
func (s *Store) List(tag ident.TypeTag) ([]ident.RootOid, error) {
	prefix := keyPrefix
	if tag != "" {
		prefix += string(tag) + string(marshal.TagSeparator)
	}
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixEnd([]byte(prefix)),
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []ident.RootOid
	for it.First(); it.Valid(); it.Next() {
		r, err := s.decode(it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, it.Error()
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// pebbleLogger routes Pebble's own messages into zap.
type pebbleLogger struct {
	s *zap.SugaredLogger
}

func (l pebbleLogger) Infof(format string, args ...interface{})  { l.s.Debugf(format, args...) }
func (l pebbleLogger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }
func (l pebbleLogger) Fatalf(format string, args ...interface{}) { l.s.Fatalf(format, args...) }
