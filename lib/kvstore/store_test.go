// Copyright 2026 The TicketFlow Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ticketflow/ticketflow/lib/clock"
	"github.com/ticketflow/ticketflow/lib/kvstore"
)

type backend struct {
	name string
	open func(t *testing.T) kvstore.Store
}

var backends = []backend{
	{"memory", func(t *testing.T) kvstore.Store { return kvstore.NewMemoryStore() }},
	{"file", func(t *testing.T) kvstore.Store {
		store, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "data"))
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		return store
	}},
	{"sqlite", func(t *testing.T) kvstore.Store {
		store, err := kvstore.OpenSQLite(kvstore.SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "kv.db"),
		})
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	}},
}

func TestStoreContract(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.open(t)

			if _, found, err := store.Get(ctx, "tickets"); err != nil || found {
				t.Fatalf("expected absent key, got found=%v err=%v", found, err)
			}

			if err := store.Set(ctx, "tickets", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			value, found, err := store.Get(ctx, "tickets")
			if err != nil || !found {
				t.Fatalf("expected key present, got found=%v err=%v", found, err)
			}
			if string(value) != `[{"id":"a"}]` {
				t.Errorf("expected stored value, got %s", value)
			}

			if err := store.Set(ctx, "tickets", []byte(`[]`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			value, _, _ = store.Get(ctx, "tickets")
			if string(value) != `[]` {
				t.Errorf("expected overwritten value, got %s", value)
			}

			if err := store.Remove(ctx, "tickets"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, found, _ := store.Get(ctx, "tickets"); found {
				t.Error("expected key absent after Remove")
			}
			if err := store.Remove(ctx, "tickets"); err != nil {
				t.Errorf("removing an absent key should succeed, got %v", err)
			}
		})
	}
}

func TestStoreKeysAreIndependent(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.open(t)
			store.Set(ctx, "ticketapp_session", []byte(`{"email":"a@b.c"}`))
			store.Set(ctx, "tickets", []byte(`[]`))
			store.Remove(ctx, "tickets")

			value, found, err := store.Get(ctx, "ticketapp_session")
			if err != nil || !found || string(value) != `{"email":"a@b.c"}` {
				t.Errorf("session key disturbed: %s found=%v err=%v", value, found, err)
			}
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			store := backend.open(t)
			for _, key := range []string{"", "../escape", "a/b", ".hidden", "sp ace"} {
				err := store.Set(context.Background(), key, []byte("x"))
				if !errors.Is(err, kvstore.ErrInvalidKey) {
					t.Errorf("Set(%q): expected ErrInvalidKey, got %v", key, err)
				}
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := kvstore.NewMemoryStore()
	value := []byte("abc")
	store.Set(context.Background(), "k", value)
	value[0] = 'z'

	got, _, _ := store.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

func TestFileStoreLayout(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "nested", "data")
	store, err := kvstore.NewFileStore(directory)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set(context.Background(), "tickets", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(directory, "tickets.json"))
	if err != nil {
		t.Fatalf("expected tickets.json: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected file content [], got %s", data)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only tickets.json, temp files left behind: %v", entries)
	}
}

func TestFileStoreCancelledContext(t *testing.T) {
	store, err := kvstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Set(ctx, "tickets", []byte("[]")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSQLiteUpdatedAt(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store, err := kvstore.OpenSQLite(kvstore.SQLiteConfig{
		Path:  filepath.Join(t.TempDir(), "kv.db"),
		Clock: fake,
	})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	store.Set(ctx, "tickets", []byte("[]"))
	fake.Advance(time.Minute)
	store.Set(ctx, "tickets", []byte("[1]"))

	updatedAt, found, err := store.UpdatedAt(ctx, "tickets")
	if err != nil || !found {
		t.Fatalf("UpdatedAt: found=%v err=%v", found, err)
	}
	if want := fake.Now().UnixMilli(); updatedAt != want {
		t.Errorf("expected updated_at=%d, got %d", want, updatedAt)
	}
}

func TestDigest(t *testing.T) {
	if kvstore.DigestOf([]byte("[]")) != kvstore.DigestOf([]byte("[]")) {
		t.Error("digest is not deterministic")
	}
	if kvstore.DigestOf([]byte("[]")) == kvstore.DigestOf([]byte("[ ]")) {
		t.Error("different content produced the same digest")
	}
}
