// Package store persists refscope settings in a small bbolt database.
//
// Only user preferences live here (the tracked remote, the listing command,
// ...). Reference state is always rebuilt from the repository.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// Buckets
var (
	BucketConfig = []byte("config") // dotted key -> value
)

// ErrNotFound is returned for unknown keys.
var ErrNotFound = errors.New("config key not found")

type DB struct{ *bbolt.DB }

// DefaultPath returns the settings database location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "refscope", "settings.db"), nil
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings %s: %w", path, err)
	}
	// Ensure buckets exist
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(BucketConfig)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func (db *DB) Close() error { return db.DB.Close() }

// PutConfig stores a configuration key-value pair.
func (db *DB) PutConfig(key, value string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketConfig).Put([]byte(key), []byte(value))
	})
}

// GetConfig retrieves a configuration value by key.
func (db *DB) GetConfig(key string) (string, error) {
	var value string
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(BucketConfig).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = string(v)
		return nil
	})
	return value, err
}

// RemoveConfig removes a configuration key-value pair.
func (db *DB) RemoveConfig(key string) error {
	return db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketConfig).Delete([]byte(key))
	})
}

// AllConfig returns every stored pair.
func (db *DB) AllConfig() (map[string]string, error) {
	values := make(map[string]string)
	err := db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(BucketConfig).ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	return values, err
}
