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
	"encoding/binary"

	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
)

// ReadDatabaseVersion retrieves the version number of the database, or zero
// with ok=false if the database is uninitialised.
func ReadDatabaseVersion(db progdb.KeyValueReader) (uint64, bool) {
	data, _ := db.Get(databaseVersionKey)
	if len(data) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(data), true
}

// WriteDatabaseVersion stores the version number of the database.
func WriteDatabaseVersion(db progdb.KeyValueWriter, version uint64) {
	if err := db.Put(databaseVersionKey, encodeSeq(version)); err != nil {
		log.Crit("Failed to store the database version", "err", err)
	}
}
