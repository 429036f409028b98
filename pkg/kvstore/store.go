// Package kvstore is a small durable key/value store on top of bbolt.
// Keys live in named buckets; values are opaque bytes.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrKeyNotFound is returned by Get for a missing key or bucket
var ErrKeyNotFound = errors.New("kvstore: key not found")

const openTimeout = time.Second

// Store wraps a single bbolt database file
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path, creating parent directories
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("kvstore: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("kvstore: create dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the file lock
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.db.Path()
}

// Get returns a copy of the value stored under bucket/key
func (s *Store) Get(bucket, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrKeyNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// bbolt values are only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put stores value under bucket/key, creating the bucket when needed
func (s *Store) Put(bucket, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("kvstore: bucket %s: %w", bucket, err)
		}
		return b.Put([]byte(key), value)
	})
}

// Update reads the current value (nil when missing) and stores whatever fn
// returns, in one write transaction
func (s *Store) Update(bucket, key string, fn func(current []byte) ([]byte, error)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("kvstore: bucket %s: %w", bucket, err)
		}
		var current []byte
		if v := b.Get([]byte(key)); v != nil {
			current = append([]byte(nil), v...)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), next)
	})
}

// Delete removes bucket/key; a missing key is not an error
func (s *Store) Delete(bucket, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Keys lists the keys of a bucket in byte order
func (s *Store) Keys(bucket string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
