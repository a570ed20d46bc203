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

	"github.com/aleoscan/aleoscan/common"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
)

// ReadFeatureHash retrieves the feature hash recorded for a program. The
// second return value reports whether the program has been indexed.
func ReadFeatureHash(db progdb.KeyValueReader, id types.ProgramID) (common.FeatureHash, bool) {
	data, _ := db.Get(featureHashKey(id))
	if len(data) != common.FeatureHashLength {
		return common.FeatureHash{}, false
	}
	return common.BytesToFeatureHash(data), true
}

// WriteFeatureHash stores the feature hash computed for a program.
func WriteFeatureHash(db progdb.KeyValueWriter, id types.ProgramID, hash common.FeatureHash) {
	if err := db.Put(featureHashKey(id), hash.Bytes()); err != nil {
		log.Crit("Failed to store feature hash", "id", id, "err", err)
	}
}

// ReadSimilarityCount retrieves the number of programs sharing a feature hash.
func ReadSimilarityCount(db progdb.KeyValueReader, hash common.FeatureHash) uint64 {
	data, _ := db.Get(simCountKey(hash))
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// ReadCatalogCountExcluding retrieves the catalog size with programs sharing
// the given feature hash left out. Ingestion registers every catalog entry
// under its feature hash, so the filtered total derives from the two
// counters without walking the index.
func ReadCatalogCountExcluding(db progdb.KeyValueReader, hash common.FeatureHash) uint64 {
	total := ReadCatalogCount(db)
	excluded := ReadSimilarityCount(db, hash)
	if excluded > total {
		return 0
	}
	return total - excluded
}

// AppendSimilarityMember adds a program to the member list of a feature hash,
// returning its position in ingestion order. Callers serialise appends for a
// given hash; the sequence counter is not safe for concurrent writers.
func AppendSimilarityMember(db progdb.KeyValueStore, hash common.FeatureHash, id types.ProgramID) uint64 {
	seq := ReadSimilarityCount(db, hash)
	if err := db.Put(similarityKey(hash, seq), []byte(id)); err != nil {
		log.Crit("Failed to store similarity member", "id", id, "err", err)
	}
	if err := db.Put(simCountKey(hash), encodeSeq(seq+1)); err != nil {
		log.Crit("Failed to update similarity count", "hash", hash, "err", err)
	}
	return seq
}

// ReadSimilarityMembers retrieves up to limit program ids that share the
// given feature hash, in ingestion order, starting at the given offset.
// Offsets beyond the member list yield an empty slice.
func ReadSimilarityMembers(db progdb.Iteratee, hash common.FeatureHash, offset, limit uint64) []types.ProgramID {
	if limit == 0 {
		return nil
	}
	it := db.NewIterator(similarityMemberPrefix(hash), encodeSeq(offset))
	defer it.Release()

	var ids []types.ProgramID
	for it.Next() && uint64(len(ids)) < limit {
		ids = append(ids, types.ProgramID(it.Value()))
	}
	return ids
}
