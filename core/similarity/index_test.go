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
	"fmt"
	"reflect"
	"testing"

	"github.com/aleoscan/aleoscan/common"
	"github.com/aleoscan/aleoscan/core/rawdb"
	"github.com/aleoscan/aleoscan/core/types"
)

func TestIndexLookup(t *testing.T) {
	ix := NewIndex(rawdb.NewMemoryDatabase())

	hash := common.BytesToFeatureHash([]byte("group-a"))
	if _, ok := ix.FeatureHashOf("ghost.aleo"); ok {
		t.Fatalf("unindexed program reported present")
	}
	ix.Record("token.aleo", hash)
	have, ok := ix.FeatureHashOf("token.aleo")
	if !ok || have != hash {
		t.Fatalf("feature hash mismatch: have %v (%v), want %v", have, ok, hash)
	}
	// Second lookup is served from the cache; the result must not change.
	if cached, ok := ix.FeatureHashOf("token.aleo"); !ok || cached != hash {
		t.Fatalf("cached feature hash mismatch: %v", cached)
	}
	if count := ix.SimilarCount("token.aleo"); count != 1 {
		t.Fatalf("similar count mismatch: have %d, want 1", count)
	}
	if count := ix.SimilarCount("ghost.aleo"); count != 0 {
		t.Fatalf("unindexed similar count mismatch: have %d, want 0", count)
	}
}

// Paging a similarity group must follow ingestion order and stay stable
// across repeated queries, with out-of-range offsets yielding empty pages.
func TestIndexPaging(t *testing.T) {
	ix := NewIndex(rawdb.NewMemoryDatabase())

	hash := common.BytesToFeatureHash([]byte("group-b"))
	var want []types.ProgramID
	for i := 0; i < 7; i++ {
		id := types.ProgramID(fmt.Sprintf("clone%d.aleo", i))
		ix.Record(id, hash)
		want = append(want, id)
	}
	if count := ix.Count(hash); count != 7 {
		t.Fatalf("group count mismatch: have %d, want 7", count)
	}
	tests := []struct {
		offset, limit uint64
		want          []types.ProgramID
	}{
		{0, 7, want},
		{0, 3, want[:3]},
		{3, 3, want[3:6]},
		{6, 3, want[6:]},
		{7, 3, nil},
		{1000, 50, nil},
	}
	for i, tt := range tests {
		have := ix.Page(hash, tt.offset, tt.limit)
		if !reflect.DeepEqual(have, tt.want) {
			t.Errorf("test %d: page mismatch: have %v, want %v", i, have, tt.want)
		}
		// Same page again, same answer.
		if again := ix.Page(hash, tt.offset, tt.limit); !reflect.DeepEqual(again, have) {
			t.Errorf("test %d: paging not stable: %v then %v", i, have, again)
		}
	}
}
