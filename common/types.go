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

// Package common contains helper types shared by the explorer packages.
package common

import (
	"encoding/hex"
	"fmt"
)

// FeatureHashLength is the expected length of a feature hash in bytes.
const FeatureHashLength = 32

// FeatureHash is the structural digest of a program. Programs sharing a
// feature hash are considered similar for catalog grouping; the hash carries
// no equivalence guarantee.
type FeatureHash [FeatureHashLength]byte

// BytesToFeatureHash sets b to a feature hash. If b is larger than the hash
// length, b will be cropped from the left.
func BytesToFeatureHash(b []byte) FeatureHash {
	var h FeatureHash
	h.SetBytes(b)
	return h
}

// HexToFeatureHash sets the byte representation of s to a feature hash. The
// 0x prefix is optional.
func HexToFeatureHash(s string) FeatureHash {
	return BytesToFeatureHash(FromHex(s))
}

// Bytes gets the byte representation of the underlying hash.
func (h FeatureHash) Bytes() []byte { return h[:] }

// Hex converts a feature hash to a hex string.
func (h FeatureHash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements the fmt.Stringer interface.
func (h FeatureHash) String() string { return h.Hex() }

// TerminalString implements log.TerminalStringer, formatting a string for
// console output during logging.
func (h FeatureHash) TerminalString() string {
	return fmt.Sprintf("%x..%x", h[:3], h[29:])
}

// SetBytes sets the hash to the value of b. If b is larger than the hash
// length, b will be cropped from the left.
func (h *FeatureHash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-FeatureHashLength:]
	}
	copy(h[FeatureHashLength-len(b):], b)
}

// MarshalText returns the hex representation of h.
func (h FeatureHash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a feature hash in hex syntax.
func (h *FeatureHash) UnmarshalText(input []byte) error {
	raw := string(input)
	if has0xPrefix(raw) {
		raw = raw[2:]
	}
	if len(raw) != FeatureHashLength*2 {
		return fmt.Errorf("invalid feature hash length %d", len(input))
	}
	dec, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	copy(h[:], dec)
	return nil
}
