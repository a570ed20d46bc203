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
	"encoding/json"

	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
	"github.com/golang/snappy"
)

// HasProgramSource reports whether verified source exists for the given id.
func HasProgramSource(db progdb.KeyValueReader, id types.ProgramID) bool {
	has, _ := db.Has(sourceKey(id))
	return has
}

// ReadProgramSource retrieves the verified source text for a program, or an
// empty string if no source has been committed.
func ReadProgramSource(db progdb.KeyValueReader, id types.ProgramID) string {
	data, _ := db.Get(sourceKey(id))
	if len(data) == 0 {
		return ""
	}
	blob, err := snappy.Decode(nil, data)
	if err != nil {
		log.Error("Corrupted source record", "id", id, "err", err)
		return ""
	}
	return string(blob)
}

// WriteProgramSource stores the verified source text for a program.
func WriteProgramSource(db progdb.KeyValueWriter, id types.ProgramID, source string) {
	if err := db.Put(sourceKey(id), snappy.Encode(nil, []byte(source))); err != nil {
		log.Crit("Failed to store source record", "id", id, "err", err)
	}
}

// ReadSourceRecord retrieves the commit metadata for a verified source, or
// nil if no source has been committed.
func ReadSourceRecord(db progdb.KeyValueReader, id types.ProgramID) *types.SourceRecord {
	data, _ := db.Get(sourceMetaKey(id))
	if len(data) == 0 {
		return nil
	}
	record := new(types.SourceRecord)
	if err := json.Unmarshal(data, record); err != nil {
		log.Error("Invalid source metadata", "id", id, "err", err)
		return nil
	}
	return record
}

// WriteSourceRecord stores the commit metadata for a verified source.
func WriteSourceRecord(db progdb.KeyValueWriter, record *types.SourceRecord) {
	blob, err := json.Marshal(record)
	if err != nil {
		log.Crit("Failed to encode source metadata", "id", record.ID, "err", err)
	}
	if err := db.Put(sourceMetaKey(record.ID), blob); err != nil {
		log.Crit("Failed to store source metadata", "id", record.ID, "err", err)
	}
}

// DeleteProgramSource removes a verified source and its metadata. Intended
// for operator tooling only; the verifier itself never unpublishes source.
func DeleteProgramSource(db progdb.KeyValueWriter, id types.ProgramID) {
	if err := db.Delete(sourceKey(id)); err != nil {
		log.Crit("Failed to delete source record", "id", id, "err", err)
	}
	if err := db.Delete(sourceMetaKey(id)); err != nil {
		log.Crit("Failed to delete source metadata", "id", id, "err", err)
	}
}
