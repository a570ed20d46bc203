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

package lru

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func mkBlob(i int) []byte {
	blob := make([]byte, 10)
	binary.BigEndian.PutUint32(blob, uint32(i))
	return blob
}

func TestSizeConstrainedCache(t *testing.T) {
	lru := NewSizeConstrainedCache[uint32, []byte](100)
	var want uint64
	// Add 11 items of 10 byte each. First item should be swapped out.
	for i := 0; i < 11; i++ {
		k := uint32(i)
		v := mkBlob(i)
		lru.Add(k, v)
		want += uint64(len(v))
		if want > 100 {
			want = 100
		}
		if have := lru.size; have != want {
			t.Fatalf("size wrong, have %d want %d", have, want)
		}
	}
	// Zero:th element should be deleted.
	{
		if _, ok := lru.Get(uint32(0)); ok {
			t.Fatalf("should be evicted: %v", 0)
		}
	}
	// Elements 1-10 should be present.
	for i := 1; i < 11; i++ {
		k := uint32(i)
		want := mkBlob(i)
		have, ok := lru.Get(k)
		if !ok {
			t.Fatalf("missing key %v", k)
		}
		if !bytes.Equal(have, want) {
			t.Fatalf("wrong value at key %v: have %x want %x", k, have, want)
		}
	}
}
