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

package pebble

import (
	"testing"

	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
	"github.com/aleoscan/aleoscan/progdb/dbtest"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
)

func TestUpperBound(t *testing.T) {
	// Test case 1: Normal prefix
	prefix := []byte{0x01, 0x02}
	limit := upperBound(prefix)
	assert.Equal(t, []byte{0x01, 0x03}, limit, "upper bound should increment last byte")

	// Test case 2: Prefix with 0xff
	prefix = []byte{0x01, 0xff}
	limit = upperBound(prefix)
	assert.Equal(t, []byte{0x02}, limit, "upper bound should increment previous byte")

	// Test case 3: All 0xff prefix
	prefix = []byte{0xff, 0xff}
	limit = upperBound(prefix)
	assert.Nil(t, limit, "upper bound should be nil for all 0xff")

	// Test case 4: Empty prefix
	prefix = []byte{}
	limit = upperBound(prefix)
	assert.Nil(t, limit, "upper bound should be nil for empty prefix")
}

func TestPebbleDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() progdb.KeyValueStore {
			db, err := pebble.Open("", &pebble.Options{
				FS: vfs.NewMem(),
			})
			if err != nil {
				t.Fatal(err)
			}
			return &Database{
				db:           db,
				log:          log.New("database", "memfs"),
				writeOptions: &pebble.WriteOptions{Sync: false},
			}
		})
	})
}
