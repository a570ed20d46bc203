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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"encoding/binary"

	"github.com/aleoscan/aleoscan/common"
	"github.com/aleoscan/aleoscan/core/types"
)

// The fields below define the low level database schema prefixing.
var (
	// databaseVersionKey tracks the current database version.
	databaseVersionKey = []byte("DatabaseVersion")

	// catalogCountKey tracks the number of programs in the catalog index.
	// Must not share a leading byte with the catalog entry prefix.
	catalogCountKey = []byte("ProgramCatalogCount")

	// Data item prefixes (use single byte to avoid mixing data types).
	programPrefix     = []byte("p") // programPrefix + id -> snappy(program record)
	sourcePrefix      = []byte("s") // sourcePrefix + id -> snappy(source text)
	sourceMetaPrefix  = []byte("S") // sourceMetaPrefix + id -> source commit metadata
	featureHashPrefix = []byte("f") // featureHashPrefix + id -> feature hash
	similarityPrefix  = []byte("F") // similarityPrefix + hash + seq (uint64 big endian) -> id
	simCountPrefix    = []byte("c") // simCountPrefix + hash -> member count (uint64 big endian)
	deployPrefix      = []byte("d") // deployPrefix + id -> deploy outcome
	callCountPrefix   = []byte("t") // callCountPrefix + id -> times called (uint64 big endian)
	catalogPrefix     = []byte("C") // catalogPrefix + seq (uint64 big endian) -> id
)

// encodeSeq encodes an ingestion sequence number as big endian uint64.
func encodeSeq(seq uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, seq)
	return enc
}

// programKey = programPrefix + id
func programKey(id types.ProgramID) []byte {
	return append(programPrefix, id...)
}

// sourceKey = sourcePrefix + id
func sourceKey(id types.ProgramID) []byte {
	return append(sourcePrefix, id...)
}

// sourceMetaKey = sourceMetaPrefix + id
func sourceMetaKey(id types.ProgramID) []byte {
	return append(sourceMetaPrefix, id...)
}

// featureHashKey = featureHashPrefix + id
func featureHashKey(id types.ProgramID) []byte {
	return append(featureHashPrefix, id...)
}

// similarityKey = similarityPrefix + hash + seq (uint64 big endian)
func similarityKey(hash common.FeatureHash, seq uint64) []byte {
	return append(append(similarityPrefix, hash.Bytes()...), encodeSeq(seq)...)
}

// similarityMemberPrefix = similarityPrefix + hash
func similarityMemberPrefix(hash common.FeatureHash) []byte {
	return append(similarityPrefix, hash.Bytes()...)
}

// simCountKey = simCountPrefix + hash
func simCountKey(hash common.FeatureHash) []byte {
	return append(simCountPrefix, hash.Bytes()...)
}

// deployKey = deployPrefix + id
func deployKey(id types.ProgramID) []byte {
	return append(deployPrefix, id...)
}

// callCountKey = callCountPrefix + id
func callCountKey(id types.ProgramID) []byte {
	return append(callCountPrefix, id...)
}

// catalogKey = catalogPrefix + seq (uint64 big endian)
func catalogKey(seq uint64) []byte {
	return append(catalogPrefix, encodeSeq(seq)...)
}
