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
	"fmt"
	"io"
	"math/rand"
	"testing"
)

// Some of these test cases were adapted
// from https://github.com/hashicorp/golang-lru/blob/master/simplelru/lru_test.go

func TestBasicLRU(t *testing.T) {
	cache := NewBasicLRU[int, int](128)

	for i := 0; i < 256; i++ {
		cache.Add(i, i)
	}
	if cache.Len() != 128 {
		t.Fatalf("bad len: %v", cache.Len())
	}

	// Check that Keys returns least-recent key first.
	keys := cache.Keys()
	if len(keys) != 128 {
		t.Fatal("wrong key count:", len(keys))
	}
	for i, k := range keys {
		v, ok := cache.Get(k)
		if !ok {
			t.Fatalf("expected key %d to be present", k)
		}
		if v != k {
			t.Fatalf("expected %d == %d", k, v)
		}
		if v != i+128 {
			t.Fatalf("wrong value at key %d: %d, want %d", i, v, i+128)
		}
	}

	for i := 0; i < 128; i++ {
		_, ok := cache.Get(i)
		if ok {
			t.Fatalf("%d should be evicted", i)
		}
	}
	for i := 128; i < 256; i++ {
		_, ok := cache.Get(i)
		if !ok {
			t.Fatalf("%d should not be evicted", i)
		}
	}

	for i := 128; i < 192; i++ {
		ok := cache.Remove(i)
		if !ok {
			t.Fatalf("%d should be in cache", i)
		}
		ok = cache.Remove(i)
		if ok {
			t.Fatalf("%d should not be in cache", i)
		}
		_, ok = cache.Get(i)
		if ok {
			t.Fatalf("%d should be deleted", i)
		}
	}

	// Request item 192.
	cache.Get(192)
	// It should be the last item returned by Keys().
	for i, k := range cache.Keys() {
		if (i < 63 && k != i+193) || (i == 63 && k != 192) {
			t.Fatalf("out of order key: %v", k)
		}
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("bad len: %v", cache.Len())
	}
	if _, ok := cache.Get(200); ok {
		t.Fatalf("should contain nothing")
	}
}

func TestBasicLRUAddExistingKey(t *testing.T) {
	cache := NewBasicLRU[int, int](1)

	cache.Add(1, 1)
	cache.Add(1, 2)

	v, _ := cache.Get(1)
	if v != 2 {
		t.Fatal("wrong value:", v)
	}
}

// This test checks that Get does not modify recency when the key is missing.
func TestBasicLRUGetMissing(t *testing.T) {
	cache := NewBasicLRU[int, int](2)

	cache.Add(1, 1)
	cache.Add(2, 2)
	_, ok := cache.Get(3)
	if ok {
		t.Fatal("should not exist")
	}
	cache.Add(3, 3)

	// 1 should be the last to be evicted.
	_, ok = cache.Get(1)
	if ok {
		t.Fatal("1 should be evicted")
	}
}

// This test checks that Peek does not modify the recency.
func TestBasicLRUPeek(t *testing.T) {
	cache := NewBasicLRU[int, int](2)
	cache.Add(1, 1)
	cache.Add(2, 2)

	// Check that Peek returns the right value.
	v, ok := cache.Peek(1)
	if !ok || v != 1 {
		t.Errorf("1 should be set to 1")
	}

	// Add new item to evict.
	cache.Add(3, 3)
	if cache.Contains(1) {
		t.Errorf("Peek should not have updated recency of 1")
	}
}

func TestBasicLRURemoveOldest(t *testing.T) {
	cache := NewBasicLRU[int, string](2)

	if _, _, ok := cache.RemoveOldest(); ok {
		t.Fatal("empty cache should have no oldest item")
	}

	cache.Add(1, "one")
	cache.Add(2, "two")
	cache.Get(1) // bump recency of 1

	k, v, ok := cache.RemoveOldest()
	if !ok || k != 2 || v != "two" {
		t.Fatalf("wrong oldest item: %v %q %v", k, v, ok)
	}
	k, v, ok = cache.RemoveOldest()
	if !ok || k != 1 || v != "one" {
		t.Fatalf("wrong oldest item: %v %q %v", k, v, ok)
	}
	if cache.Len() != 0 {
		t.Fatal("cache should be empty")
	}
}

func BenchmarkLRU(b *testing.B) {
	var (
		capacity = 1000
		indexes  = make([]int, capacity*20)
		keys     = make([]string, capacity)
		values   = make([][]byte, capacity)
	)
	for i := range indexes {
		indexes[i] = rand.Intn(capacity)
	}
	for i := range keys {
		b := make([]byte, 32)
		rand.Read(b)
		keys[i] = string(b)
		values[i] = make([]byte, 224)
		rand.Read(values[i])
	}

	var sink []byte

	b.Run("Add/BasicLRU", func(b *testing.B) {
		cache := NewBasicLRU[int, int](capacity)
		for i := 0; i < b.N; i++ {
			cache.Add(i, i)
		}
	})
	b.Run("Get/BasicLRU", func(b *testing.B) {
		cache := NewBasicLRU[string, []byte](capacity)
		for i := 0; i < capacity; i++ {
			index := indexes[i]
			cache.Add(keys[index], values[index])
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := keys[indexes[i%len(indexes)]]
			v, ok := cache.Get(k)
			if ok {
				sink = v
			}
		}
	})

	fmt.Fprintln(io.Discard, sink)
}
