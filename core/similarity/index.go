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

package similarity

import (
	"github.com/aleoscan/aleoscan/common"
	"github.com/aleoscan/aleoscan/common/lru"
	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/progdb"
)

// hashCacheSize bounds the forward programId -> featureHash cache. Entries
// are immutable once written, so the cache never needs invalidation.
const hashCacheSize = 4096

// Index provides read access to the similarity groups. Group membership is
// written by the ingestion path; queries see a stable ingestion-sequence
// ordering, so repeated paging with the same offset and limit is
// deterministic.
type Index struct {
	db     progdb.KeyValueStore
	hashes *lru.Cache[types.ProgramID, common.FeatureHash]
}

// NewIndex creates a similarity index over the given database.
func NewIndex(db progdb.KeyValueStore) *Index {
	return &Index{
		db:     db,
		hashes: lru.NewCache[types.ProgramID, common.FeatureHash](hashCacheSize),
	}
}

// FeatureHashOf returns the feature hash recorded for a program. The boolean
// reports whether the program has been ingested into the index.
func (ix *Index) FeatureHashOf(id types.ProgramID) (common.FeatureHash, bool) {
	if hash, ok := ix.hashes.Get(id); ok {
		return hash, true
	}
	hash, ok := rawdb.ReadFeatureHash(ix.db, id)
	if ok {
		ix.hashes.Add(id, hash)
	}
	return hash, ok
}

// Count returns the number of programs sharing the given feature hash.
func (ix *Index) Count(hash common.FeatureHash) uint64 {
	return rawdb.ReadSimilarityCount(ix.db, hash)
}

// Page returns up to limit programs sharing the given feature hash, in
// ingestion order, starting at offset. Offsets beyond the group's membership
// yield an empty result.
func (ix *Index) Page(hash common.FeatureHash, offset, limit uint64) []types.ProgramID {
	return rawdb.ReadSimilarityMembers(ix.db, hash, offset, limit)
}

// SimilarCount returns how many programs share a program's feature hash,
// including the program itself. Unindexed programs have a count of zero.
func (ix *Index) SimilarCount(id types.ProgramID) uint64 {
	hash, ok := ix.FeatureHashOf(id)
	if !ok {
		return 0
	}
	return ix.Count(hash)
}

// Record registers a newly ingested program under its feature hash,
// appending it to the group's member list. Used by the ingestion path only;
// concurrent Record calls for the same hash must be serialised by the caller.
func (ix *Index) Record(id types.ProgramID, hash common.FeatureHash) {
	rawdb.WriteFeatureHash(ix.db, id, hash)
	rawdb.AppendSimilarityMember(ix.db, hash, id)
	ix.hashes.Add(id, hash)
}
