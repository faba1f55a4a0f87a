// Package storage is the durable key-value layer behind the favorites
// list. Values are opaque bytes; callers own their encoding.
package storage

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
)

// Store is a badger-backed key-value store.
type Store struct {
	db   *badger.DB
	path string
}

// Open opens (creating if needed) the store at dir. Writes are synced
// before returning so a saved list survives a crash.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	return open(opts, dir)
}

// OpenInMemory opens a store that keeps everything in memory.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), ":memory:")
}

func open(opts badger.Options, path string) (*Store, error) {
	opts.Logger = badgerLogger{logging.Default().With().Str("component", "badger").Logger()}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the directory the store was opened at.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key, or an error matching errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, errors.WrapIO("read", key, err)
	}
	return out, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.WrapIO("write", key, err)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.WrapIO("delete", key, err)
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return errors.WrapIO("close", s.path, s.db.Close())
}

// badgerLogger routes badger's printf-style logs into zerolog. Info and
// debug chatter is demoted to debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(f string, args ...any)   { b.l.Error().Msgf(trim(f), args...) }
func (b badgerLogger) Warningf(f string, args ...any) { b.l.Warn().Msgf(trim(f), args...) }
func (b badgerLogger) Infof(f string, args ...any)    { b.l.Debug().Msgf(trim(f), args...) }
func (b badgerLogger) Debugf(f string, args ...any)   { b.l.Trace().Msgf(trim(f), args...) }

func trim(f string) string { return strings.TrimSuffix(f, "\n") }
