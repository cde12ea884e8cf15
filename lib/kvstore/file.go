// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileExtension is appended to a key to form its filename.
const FileExtension = ".json"

// FileStore keeps each key in <directory>/<key>.json. Writes go to a
// temporary file in the same directory and are renamed into place, so
// another process reading the directory sees either the old value or
// the new one.
type FileStore struct {
	directory string
}

// NewFileStore returns a store rooted at directory, creating it with
// mode 0700 if needed.
func NewFileStore(directory string) (*FileStore, error) {
	if directory == "" {
		return nil, errors.New("kvstore: directory is required")
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("kvstore: creating %s: %w", directory, err)
	}
	return &FileStore{directory: directory}, nil
}

// Directory returns the directory holding the key files.
func (s *FileStore) Directory() string { return s.directory }

// Filename returns the base name of the file backing key.
func Filename(key string) string { return key + FileExtension }

// Path returns the full path of the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.directory, Filename(key))
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: reading %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomic.WriteFile(s.Path(key), bytes.NewReader(value)); err != nil {
		return fmt.Errorf("kvstore: writing %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("kvstore: removing %s: %w", key, err)
	}
	return nil
}
