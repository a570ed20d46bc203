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
	"encoding/json"

	"github.com/aleoscan/aleoscan/core/types"
	"github.com/aleoscan/aleoscan/log"
	"github.com/aleoscan/aleoscan/progdb"
	"github.com/golang/snappy"
)

// HasProgram reports whether a program record exists for the given id.
func HasProgram(db progdb.KeyValueReader, id types.ProgramID) bool {
	has, _ := db.Has(programKey(id))
	return has
}

// ReadProgram retrieves the on-chain program record for the given id, or nil
// if the program is unknown.
func ReadProgram(db progdb.KeyValueReader, id types.ProgramID) *types.Program {
	data, _ := db.Get(programKey(id))
	if len(data) == 0 {
		return nil
	}
	blob, err := snappy.Decode(nil, data)
	if err != nil {
		log.Error("Corrupted program record", "id", id, "err", err)
		return nil
	}
	program := new(types.Program)
	if err := json.Unmarshal(blob, program); err != nil {
		log.Error("Invalid program record", "id", id, "err", err)
		return nil
	}
	return program
}

// WriteProgram stores an on-chain program record.
func WriteProgram(db progdb.KeyValueWriter, program *types.Program) {
	blob, err := json.Marshal(program)
	if err != nil {
		log.Crit("Failed to encode program record", "id", program.ID, "err", err)
	}
	if err := db.Put(programKey(program.ID), snappy.Encode(nil, blob)); err != nil {
		log.Crit("Failed to store program record", "id", program.ID, "err", err)
	}
}

// deployEnvelope carries a deploy outcome through storage, keeping the
// variant tag explicit in the encoding.
type deployEnvelope struct {
	Accepted *types.AcceptedDeploy `json:"accepted,omitempty"`
	Rejected *types.RejectedDeploy `json:"rejected,omitempty"`
}

// ReadDeployOutcome retrieves the confirmed deploy outcome recorded for a
// program, or nil if none was indexed.
func ReadDeployOutcome(db progdb.KeyValueReader, id types.ProgramID) types.DeployOutcome {
	data, _ := db.Get(deployKey(id))
	if len(data) == 0 {
		return nil
	}
	var env deployEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error("Invalid deploy outcome", "id", id, "err", err)
		return nil
	}
	switch {
	case env.Accepted != nil:
		return env.Accepted
	case env.Rejected != nil:
		return env.Rejected
	default:
		log.Error("Empty deploy outcome envelope", "id", id)
		return nil
	}
}

// WriteDeployOutcome stores the confirmed deploy outcome for a program.
func WriteDeployOutcome(db progdb.KeyValueWriter, id types.ProgramID, outcome types.DeployOutcome) {
	var env deployEnvelope
	switch d := outcome.(type) {
	case *types.AcceptedDeploy:
		env.Accepted = d
	case *types.RejectedDeploy:
		env.Rejected = d
	default:
		log.Crit("Unknown deploy outcome variant", "id", id)
	}
	blob, err := json.Marshal(&env)
	if err != nil {
		log.Crit("Failed to encode deploy outcome", "id", id, "err", err)
	}
	if err := db.Put(deployKey(id), blob); err != nil {
		log.Crit("Failed to store deploy outcome", "id", id, "err", err)
	}
}

// ReadProgramCalledTimes retrieves how often a program has been called.
func ReadProgramCalledTimes(db progdb.KeyValueReader, id types.ProgramID) uint64 {
	data, _ := db.Get(callCountKey(id))
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// WriteProgramCalledTimes stores the call counter for a program.
func WriteProgramCalledTimes(db progdb.KeyValueWriter, id types.ProgramID, count uint64) {
	if err := db.Put(callCountKey(id), encodeSeq(count)); err != nil {
		log.Crit("Failed to store program call counter", "id", id, "err", err)
	}
}

// ReadCatalogCount retrieves the number of programs in the catalog index.
func ReadCatalogCount(db progdb.KeyValueReader) uint64 {
	data, _ := db.Get(catalogCountKey)
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// AppendCatalogEntry adds a program to the end of the catalog index,
// returning its ingestion sequence number.
func AppendCatalogEntry(db progdb.KeyValueStore, id types.ProgramID) uint64 {
	seq := func() uint64 {
		data, _ := db.Get(catalogCountKey)
		if len(data) != 8 {
			return 0
		}
		return binary.BigEndian.Uint64(data)
	}()
	if err := db.Put(catalogKey(seq), []byte(id)); err != nil {
		log.Crit("Failed to store catalog entry", "id", id, "err", err)
	}
	if err := db.Put(catalogCountKey, encodeSeq(seq+1)); err != nil {
		log.Crit("Failed to update catalog count", "err", err)
	}
	return seq
}

// ReadCatalogRange retrieves up to limit program ids from the catalog index
// in ingestion order, starting at the given offset. Entries matching the
// optional skip filter are dropped from the result. Offsets beyond the end of
// the catalog yield an empty slice.
func ReadCatalogRange(db progdb.Iteratee, offset, limit uint64, skip func(types.ProgramID) bool) []types.ProgramID {
	if limit == 0 {
		return nil
	}
	it := db.NewIterator(catalogPrefix, encodeSeq(offset))
	defer it.Release()

	var ids []types.ProgramID
	for it.Next() && uint64(len(ids)) < limit {
		id := types.ProgramID(it.Value())
		if skip != nil && skip(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
