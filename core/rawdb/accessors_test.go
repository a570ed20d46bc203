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
	"reflect"
	"strings"
	"testing"

	"github.com/aleoscan/aleoscan/common"
	"github.com/aleoscan/aleoscan/core/types"
)

// Tests program record storage and retrieval operations.
func TestProgramStorage(t *testing.T) {
	db := NewMemoryDatabase()

	program := &types.Program{
		ID:       "token.aleo",
		Bytecode: []byte("program token.aleo;\n\nfunction transfer:\n"),
		Imports:  []types.ProgramID{"credits.aleo"},
		Height:   1337,
	}
	if entry := ReadProgram(db, program.ID); entry != nil {
		t.Fatalf("non existent program returned: %v", entry)
	}
	if HasProgram(db, program.ID) {
		t.Fatalf("non existent program reported present")
	}
	WriteProgram(db, program)
	if !HasProgram(db, program.ID) {
		t.Fatalf("stored program not reported present")
	}
	entry := ReadProgram(db, program.ID)
	if entry == nil {
		t.Fatalf("stored program not found")
	}
	if !reflect.DeepEqual(entry, program) {
		t.Fatalf("retrieved program mismatch: have %v, want %v", entry, program)
	}
}

// Tests verified source storage and retrieval operations.
func TestProgramSourceStorage(t *testing.T) {
	db := NewMemoryDatabase()

	id := types.ProgramID("token.aleo")
	source := "program token.aleo {\n    transition transfer() {}\n}\n"

	if HasProgramSource(db, id) {
		t.Fatalf("non existent source reported present")
	}
	if have := ReadProgramSource(db, id); have != "" {
		t.Fatalf("non existent source returned: %q", have)
	}
	WriteProgramSource(db, id, source)
	WriteSourceRecord(db, &types.SourceRecord{ID: id, Source: source, CommittedAt: 99})

	if !HasProgramSource(db, id) {
		t.Fatalf("stored source not reported present")
	}
	if have := ReadProgramSource(db, id); have != source {
		t.Fatalf("retrieved source mismatch: have %q, want %q", have, source)
	}
	record := ReadSourceRecord(db, id)
	if record == nil || record.CommittedAt != 99 {
		t.Fatalf("retrieved source metadata mismatch: %v", record)
	}
	DeleteProgramSource(db, id)
	if HasProgramSource(db, id) {
		t.Fatalf("deleted source reported present")
	}
	if ReadSourceRecord(db, id) != nil {
		t.Fatalf("deleted source metadata still present")
	}
}

// Tests deploy outcome storage round-trips both accepted and rejected
// variants through the envelope encoding.
func TestDeployOutcomeStorage(t *testing.T) {
	db := NewMemoryDatabase()

	accepted := &types.AcceptedDeploy{
		TransactionID: "at1qqqq",
		Program:       "token.aleo",
		Owner:         "aleo1owner",
		Signature:     "sign1abc",
	}
	rejected := &types.RejectedDeploy{
		TransactionID: "at1zzzz",
		Program:       "broken.aleo",
		Reason:        "execution failed",
	}
	if outcome := ReadDeployOutcome(db, "token.aleo"); outcome != nil {
		t.Fatalf("non existent outcome returned: %v", outcome)
	}
	WriteDeployOutcome(db, "token.aleo", accepted)
	WriteDeployOutcome(db, "broken.aleo", rejected)

	if have, ok := ReadDeployOutcome(db, "token.aleo").(*types.AcceptedDeploy); !ok || !reflect.DeepEqual(have, accepted) {
		t.Fatalf("retrieved accepted outcome mismatch: %v", have)
	}
	if have, ok := ReadDeployOutcome(db, "broken.aleo").(*types.RejectedDeploy); !ok || !reflect.DeepEqual(have, rejected) {
		t.Fatalf("retrieved rejected outcome mismatch: %v", have)
	}
}

// Tests the program call counter storage.
func TestCallCounterStorage(t *testing.T) {
	db := NewMemoryDatabase()

	id := types.ProgramID("credits.aleo")
	if have := ReadProgramCalledTimes(db, id); have != 0 {
		t.Fatalf("fresh counter not zero: %d", have)
	}
	WriteProgramCalledTimes(db, id, 42)
	if have := ReadProgramCalledTimes(db, id); have != 42 {
		t.Fatalf("counter mismatch: have %d, want 42", have)
	}
}

// Tests that catalog entries are returned in ingestion order and that
// out-of-range offsets yield empty results rather than errors.
func TestCatalogPaging(t *testing.T) {
	db := NewMemoryDatabase()

	var want []types.ProgramID
	for i := 0; i < 10; i++ {
		id := types.ProgramID(fmt.Sprintf("prog%02d.aleo", i))
		if seq := AppendCatalogEntry(db, id); seq != uint64(i) {
			t.Fatalf("entry %d assigned sequence %d", i, seq)
		}
		want = append(want, id)
	}
	if count := ReadCatalogCount(db); count != 10 {
		t.Fatalf("catalog count mismatch: have %d, want 10", count)
	}
	tests := []struct {
		offset, limit uint64
		want          []types.ProgramID
	}{
		{0, 10, want},
		{0, 3, want[:3]},
		{3, 3, want[3:6]},
		{8, 5, want[8:]},
		{10, 5, nil},
		{100, 5, nil},
		{0, 0, nil},
	}
	for i, tt := range tests {
		if have := ReadCatalogRange(db, tt.offset, tt.limit, nil); !reflect.DeepEqual(have, tt.want) {
			t.Errorf("test %d: range mismatch: have %v, want %v", i, have, tt.want)
		}
	}
	// Filtered read drops matching entries but keeps ordering.
	skip := func(id types.ProgramID) bool { return strings.HasSuffix(string(id), "3.aleo") }
	filtered := ReadCatalogRange(db, 0, 10, skip)
	if len(filtered) != 9 {
		t.Fatalf("filtered range length mismatch: have %d, want 9", len(filtered))
	}
	for _, id := range filtered {
		if skip(id) {
			t.Fatalf("filtered range contains skipped id %s", id)
		}
	}
}

// Tests similarity member lists: forward hash mapping, counts and
// ingestion-ordered paging.
func TestSimilarityStorage(t *testing.T) {
	db := NewMemoryDatabase()

	hash := common.BytesToFeatureHash([]byte("feature-hash-under-test"))
	if _, ok := ReadFeatureHash(db, "one.aleo"); ok {
		t.Fatalf("non existent feature hash reported present")
	}
	var want []types.ProgramID
	for i := 0; i < 5; i++ {
		id := types.ProgramID(fmt.Sprintf("clone%d.aleo", i))
		WriteFeatureHash(db, id, hash)
		AppendSimilarityMember(db, hash, id)
		want = append(want, id)
	}
	if have, ok := ReadFeatureHash(db, "clone0.aleo"); !ok || have != hash {
		t.Fatalf("feature hash mismatch: have %v, want %v", have, hash)
	}
	if count := ReadSimilarityCount(db, hash); count != 5 {
		t.Fatalf("similarity count mismatch: have %d, want 5", count)
	}
	if have := ReadSimilarityMembers(db, hash, 0, 10); !reflect.DeepEqual(have, want) {
		t.Fatalf("member list mismatch: have %v, want %v", have, want)
	}
	if have := ReadSimilarityMembers(db, hash, 2, 2); !reflect.DeepEqual(have, want[2:4]) {
		t.Fatalf("member page mismatch: have %v, want %v", have, want[2:4])
	}
	if have := ReadSimilarityMembers(db, hash, 5, 2); have != nil {
		t.Fatalf("out of range page returned members: %v", have)
	}
	// A different hash shares no members.
	other := common.BytesToFeatureHash([]byte("some-other-hash"))
	if have := ReadSimilarityMembers(db, other, 0, 10); have != nil {
		t.Fatalf("foreign hash returned members: %v", have)
	}
	if count := ReadSimilarityCount(db, other); count != 0 {
		t.Fatalf("foreign hash count mismatch: have %d, want 0", count)
	}
}

// Tests the filtered catalog total used by listings that drop a feature
// hash group, e.g. unmodified starter programs.
func TestCatalogCountExcluding(t *testing.T) {
	db := NewMemoryDatabase()

	starter := common.BytesToFeatureHash([]byte("starter-template"))
	unique := common.BytesToFeatureHash([]byte("something-else"))

	if count := ReadCatalogCountExcluding(db, starter); count != 0 {
		t.Fatalf("empty catalog filtered count: have %d, want 0", count)
	}
	for i := 0; i < 7; i++ {
		id := types.ProgramID(fmt.Sprintf("prog%d.aleo", i))
		hash := unique
		if i%2 == 0 { // 4 of 7 are starter clones
			hash = starter
		}
		AppendCatalogEntry(db, id)
		WriteFeatureHash(db, id, hash)
		AppendSimilarityMember(db, hash, id)
	}
	if count := ReadCatalogCount(db); count != 7 {
		t.Fatalf("catalog count mismatch: have %d, want 7", count)
	}
	if count := ReadCatalogCountExcluding(db, starter); count != 3 {
		t.Fatalf("filtered count mismatch: have %d, want 3", count)
	}
	if count := ReadCatalogCountExcluding(db, unique); count != 4 {
		t.Fatalf("filtered count mismatch: have %d, want 4", count)
	}
}

// Tests database version bookkeeping.
func TestDatabaseVersion(t *testing.T) {
	db := NewMemoryDatabase()

	if _, ok := ReadDatabaseVersion(db); ok {
		t.Fatalf("fresh database reports a version")
	}
	WriteDatabaseVersion(db, 1)
	if version, ok := ReadDatabaseVersion(db); !ok || version != 1 {
		t.Fatalf("version mismatch: have %d (%v), want 1", version, ok)
	}
}
