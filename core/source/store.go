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

// Package source maintains the verified source registry. Source text is
// committed at most once per program; whichever verification wins the commit
// race becomes the permanent record.
package source

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aleoscan/aleoscan/common/lru"
	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
)

// ErrStoreFailed is returned when the database rejects a commit write. The
// attempt has no effect and may be retried.
var ErrStoreFailed = errors.New("source store write failed")

// CommitStatus reports the result of a commit attempt.
type CommitStatus int

const (
	// Committed means this attempt installed the source record.
	Committed CommitStatus = iota

	// AlreadyCommitted means a record already existed; the attempt changed
	// nothing and the existing record stands.
	AlreadyCommitted
)

func (s CommitStatus) String() string {
	switch s {
	case Committed:
		return "committed"
	case AlreadyCommitted:
		return "already committed"
	default:
		return "unknown"
	}
}

// Store is the verified source registry, layered over the raw database.
// The existence check and the insert of a commit run under one lock, so
// concurrent verifications of the same program cannot both win.
type Store struct {
	db    progdb.KeyValueStore
	mu    sync.Mutex // serialises commit attempts
	texts *lru.SizeConstrainedCache[types.ProgramID, string]
	log   log.Logger

	now func() uint64 // commit timestamp source, swappable in tests
}

// sourceCacheSize bounds the in-memory source text cache in bytes. Records
// are immutable after commit, so cached entries never go stale.
const sourceCacheSize = 4 * 1024 * 1024

// NewStore creates a source registry over the given database.
func NewStore(db progdb.KeyValueStore) *Store {
	return &Store{
		db:    db,
		texts: lru.NewSizeConstrainedCache[types.ProgramID, string](sourceCacheSize),
		log:   log.New("module", "source"),
		now:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// Has reports whether verified source exists for the given program.
func (s *Store) Has(id types.ProgramID) bool {
	return rawdb.HasProgramSource(s.db, id)
}

// Get returns the verified source text for a program. The boolean reports
// whether any source has been committed.
func (s *Store) Get(id types.ProgramID) (string, bool) {
	if text, ok := s.texts.Get(id); ok {
		return text, true
	}
	if !rawdb.HasProgramSource(s.db, id) {
		return "", false
	}
	text := rawdb.ReadProgramSource(s.db, id)
	s.texts.Add(id, text)
	return text, true
}

// Record returns the commit metadata for a verified source, or nil if none
// has been committed.
func (s *Store) Record(id types.ProgramID) *types.SourceRecord {
	return rawdb.ReadSourceRecord(s.db, id)
}

// TryCommit installs source text for a program unless a record already
// exists. The returned status distinguishes a winning commit from a lost
// race or a resubmission; either way the stored record is authoritative
// afterwards. A failed write surfaces as ErrStoreFailed and leaves no
// record behind; the status is only meaningful when the error is nil.
func (s *Store) TryCommit(id types.ProgramID, text string) (CommitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rawdb.HasProgramSource(s.db, id) {
		s.log.Debug("Source already committed", "id", id)
		return AlreadyCommitted, nil
	}
	// Text and record land in one batch, so a backend failure cannot
	// leave a half-written commit.
	batch := s.db.NewBatch()
	rawdb.WriteProgramSource(batch, id, text)
	rawdb.WriteSourceRecord(batch, &types.SourceRecord{
		ID:          id,
		Source:      text,
		CommittedAt: s.now(),
	})
	if err := batch.Write(); err != nil {
		s.log.Error("Source commit failed", "id", id, "err", err)
		return Committed, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	s.texts.Add(id, text)
	s.log.Info("Committed verified source", "id", id, "size", len(text))
	return Committed, nil
}
