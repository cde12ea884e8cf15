// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore is the persistence layer under the session and
// ticket stores: a flat namespace of keys, each holding one opaque
// value that is always read and written whole.
//
// Three backends implement [Store]. [FileStore] keeps one JSON file
// per key and replaces it atomically. [SQLiteStore] keeps a single
// table. [MemoryStore] is process-local and backs tests.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/zeebo/blake3"
)

// Store reads and writes whole values by key.
type Store interface {
	// Get returns the value for key. The boolean is false, with a nil
	// error, when the key has never been set or has been removed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value for key. A reader never observes a
	// partially written value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// ErrCorrupt marks a stored value that exists but cannot be decoded.
// Callers wrap it with the key and the decoding error.
var ErrCorrupt = errors.New("kvstore: stored value is corrupt")

// ErrInvalidKey is returned for keys that are empty or contain
// characters outside [A-Za-z0-9_.-].
var ErrInvalidKey = errors.New("kvstore: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateKey rejects keys that could escape a directory or collide
// with temporary files.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Digest identifies a value's content. Stores compare digests to tell
// a real external change from an echo of their own write.
type Digest [32]byte

// DigestOf hashes value with BLAKE3.
func DigestOf(value []byte) Digest {
	return blake3.Sum256(value)
}
