// Copyright 2025 The aleoscan Authors
// This file is part of the aleoscan library.
//
// The aleoscan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The aleoscan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the aleoscan library. If not, see <http://www.gnu.org/licenses/>.

package source

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/progdb"
)

func newTestStore() *Store {
	store := NewStore(rawdb.NewMemoryDatabase())
	store.now = func() uint64 { return 12345 }
	return store
}

func TestCommitAndGet(t *testing.T) {
	store := newTestStore()

	id := types.ProgramID("token.aleo")
	if _, ok := store.Get(id); ok {
		t.Fatalf("fresh store reports source present")
	}
	if status, err := store.TryCommit(id, "program token.aleo {}"); err != nil || status != Committed {
		t.Fatalf("first commit: have %v (%v), want %v", status, err, Committed)
	}
	text, ok := store.Get(id)
	if !ok || text != "program token.aleo {}" {
		t.Fatalf("retrieved source mismatch: %q (%v)", text, ok)
	}
	record := store.Record(id)
	if record == nil || record.CommittedAt != 12345 {
		t.Fatalf("commit metadata mismatch: %v", record)
	}
}

// A second commit for the same program must not replace the first record,
// even when the text differs.
func TestCommitAtMostOnce(t *testing.T) {
	store := newTestStore()

	id := types.ProgramID("token.aleo")
	if status, err := store.TryCommit(id, "first"); err != nil || status != Committed {
		t.Fatalf("first commit: have %v (%v), want %v", status, err, Committed)
	}
	if status, err := store.TryCommit(id, "second"); err != nil || status != AlreadyCommitted {
		t.Fatalf("second commit: have %v (%v), want %v", status, err, AlreadyCommitted)
	}
	if text, _ := store.Get(id); text != "first" {
		t.Fatalf("winning record replaced: %q", text)
	}
}

// Concurrent commit attempts for the same program must produce exactly one
// winner; every other attempt observes the existing record.
func TestCommitRace(t *testing.T) {
	store := newTestStore()

	id := types.ProgramID("token.aleo")
	const attempts = 16

	var (
		wg      sync.WaitGroup
		results = make([]CommitStatus, attempts)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.TryCommit(id, fmt.Sprintf("candidate %d", i))
		}(i)
	}
	wg.Wait()

	var winners int
	for _, status := range results {
		if status == Committed {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("commit winners: have %d, want 1", winners)
	}
	if _, ok := store.Get(id); !ok {
		t.Fatalf("no record stored after race")
	}
}

// failingDB rejects every batch write, simulating a full or broken backend.
type failingDB struct {
	progdb.KeyValueStore
}

type failingBatch struct {
	progdb.Batch
}

func (db failingDB) NewBatch() progdb.Batch { return failingBatch{db.KeyValueStore.NewBatch()} }

func (b failingBatch) Write() error { return errors.New("disk full") }

// A rejected write must surface as a per-request error, leave no record
// behind, and permit a retry once the backend recovers.
func TestCommitStoreFailure(t *testing.T) {
	db := rawdb.NewMemoryDatabase()
	store := NewStore(failingDB{db})
	store.now = func() uint64 { return 12345 }

	id := types.ProgramID("token.aleo")
	if _, err := store.TryCommit(id, "program token.aleo {}"); !errors.Is(err, ErrStoreFailed) {
		t.Fatalf("commit error: have %v, want %v", err, ErrStoreFailed)
	}
	if _, ok := store.Get(id); ok {
		t.Fatalf("failed commit left a record")
	}
	store.db = db // backend recovered
	if status, err := store.TryCommit(id, "program token.aleo {}"); err != nil || status != Committed {
		t.Fatalf("retried commit: have %v (%v), want %v", status, err, Committed)
	}
}
