// Package bolt is a single-file db.Store backed by bbolt, used by the CLI.
package bolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kailas-cloud/tagseek/internal/db"
)

var _ db.Store = (*Store)(nil)

var bucket = []byte("tagseek")

// Store keeps every key in a single bucket of a bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the bbolt file at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	bdb, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	return &Store{db: bdb}, nil
}

// Ping fails once the file has been closed.
func (s *Store) Ping(_ context.Context) error {
	if err := s.db.View(func(*bbolt.Tx) error { return nil }); err != nil {
		return &db.Error{Op: db.OpPing, Err: translate(err)}
	}
	return nil
}

// WaitForReady returns immediately: an open bbolt file is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close closes the file.
func (s *Store) Close() {
	_ = s.db.Close()
}

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return db.ErrKeyNotFound
		}
		out = bytes.Clone(v)
		return nil
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: translate(err)}
	}
	return out, nil
}

// Set stores value at key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: translate(err)}
	}
	return nil
}

// Del removes key.
func (s *Store) Del(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: translate(err)}
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return db.ErrClosed
	}
	return err
}
