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

package rawdb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aleoscan/aleoscan/progdb"
	"github.com/aleoscan/aleoscan/progdb/leveldb"
	"github.com/aleoscan/aleoscan/progdb/memorydb"
	"github.com/aleoscan/aleoscan/progdb/pebble"
)

const (
	DBPebble  = "pebble"
	DBLeveldb = "leveldb"
)

// NewMemoryDatabase creates an ephemeral in-memory key-value database.
func NewMemoryDatabase() progdb.KeyValueStore {
	return memorydb.New()
}

// NewLevelDBDatabase creates a persistent key-value database backed by leveldb.
func NewLevelDBDatabase(file string, cache int, handles int, readonly bool) (progdb.KeyValueStore, error) {
	return leveldb.New(file, cache, handles, readonly)
}

// NewPebbleDBDatabase creates a persistent key-value database backed by pebble.
func NewPebbleDBDatabase(file string, cache int, handles int, readonly bool) (progdb.KeyValueStore, error) {
	return pebble.New(file, cache, handles, readonly)
}

// OpenOptions contains the options to apply when opening a database.
type OpenOptions struct {
	Type      string // "leveldb" | "pebble", empty means auto-detect with pebble default
	Directory string // empty means in-memory
	Cache     int    // megabytes of memory allocated to internal caching
	Handles   int    // number of file handles to allocate
	ReadOnly  bool
}

// Open opens a key-value database per the supplied options. If an existing
// database of a different engine is found at the directory, opening fails
// rather than silently corrupting it.
func Open(o OpenOptions) (progdb.KeyValueStore, error) {
	if o.Directory == "" {
		return NewMemoryDatabase(), nil
	}
	existing := PreexistingDatabase(o.Directory)
	if o.Type != "" && o.Type != DBLeveldb && o.Type != DBPebble {
		return nil, fmt.Errorf("unknown db.engine %q", o.Type)
	}
	if existing != "" && o.Type != "" && o.Type != existing {
		return nil, fmt.Errorf("db.engine choice was %v but found pre-existing %v database in specified data directory", o.Type, existing)
	}
	engine := o.Type
	if engine == "" {
		engine = existing
	}
	if engine == DBLeveldb {
		return NewLevelDBDatabase(o.Directory, o.Cache, o.Handles, o.ReadOnly)
	}
	return NewPebbleDBDatabase(o.Directory, o.Cache, o.Handles, o.ReadOnly)
}

// PreexistingDatabase checks the given data directory whether a database is
// already instantiated at that location, and if so, returns the type of
// database (or the empty string).
func PreexistingDatabase(path string) string {
	if _, err := os.Stat(filepath.Join(path, "CURRENT")); err != nil {
		return "" // No pre-existing db
	}
	if matches, err := filepath.Glob(filepath.Join(path, "OPTIONS*")); len(matches) > 0 || err != nil {
		if err != nil {
			panic(err) // only possible if the pattern is malformed
		}
		return DBPebble
	}
	return DBLeveldb
}
