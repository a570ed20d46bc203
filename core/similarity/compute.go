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

// Package similarity groups structurally identical programs. The feature
// hash covers a program's instruction shape but not its user-chosen names,
// so renamed copies of a template land in the same group.
package similarity

import (
	"fmt"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/crypto/sha3"

	"github.com/aleoscan/aleoscan/common"
)

// HelloworldTemplate is the starter program every tutorial deploys. Its
// feature hash marks the unmodified copies that listings can filter out.
const HelloworldTemplate = `program helloworld.aleo;

function main:
    input r0 as u32.public;
    input r1 as u32.private;
    add r0 r1 into r2;
    output r2 as u32.private;
`

// structuralTokens are the disassembly tokens that carry structural meaning
// and survive normalization verbatim. Everything else alphanumeric is a
// user-chosen identifier and gets a positional placeholder.
var structuralTokens = mapset.NewThreadUnsafeSet(
	// declarations
	"program", "import", "function", "closure", "finalize", "mapping",
	"struct", "record", "interface", "transition", "key", "value", "as",
	"input", "output", "constant", "public", "private", "into", "to", "by",
	// instructions
	"add", "sub", "mul", "div", "rem", "pow", "neg", "abs", "sqrt",
	"add.w", "sub.w", "mul.w", "div.w", "rem.w", "pow.w", "abs.w",
	"and", "or", "xor", "not", "nand", "nor", "shl", "shr", "shl.w", "shr.w",
	"gt", "gte", "lt", "lte", "is.eq", "is.neq", "assert.eq", "assert.neq",
	"ternary", "cast", "cast.lossy", "call", "async",
	"hash.bhp256", "hash.bhp512", "hash.bhp768", "hash.bhp1024",
	"hash.ped64", "hash.ped128", "hash.psd2", "hash.psd4", "hash.psd8",
	"hash.keccak256", "hash.keccak384", "hash.keccak512",
	"hash.sha3_256", "hash.sha3_384", "hash.sha3_512",
	"commit.bhp256", "commit.bhp512", "commit.bhp768", "commit.bhp1024",
	"commit.ped64", "commit.ped128",
	"sign.verify", "rand.chacha", "get", "get.or_use", "set", "remove",
	"contains", "branch.eq", "branch.neq", "position",
	// types and wildcards
	"address", "boolean", "field", "group", "scalar", "signature", "string",
	"i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128",
	"self", "caller", "signer", "block", "height", "network", "id",
	"true", "false", "aleo",
)

// Compute derives the structural feature hash of a program from its
// canonical disassembly. The digest is a pure function of the token stream:
// structural tokens and punctuation pass through, user identifiers are
// replaced by first-occurrence indices. Identical structure therefore yields
// an identical hash no matter what anything is named.
func Compute(disassembly []byte) common.FeatureHash {
	var (
		hasher       = sha3.NewLegacyKeccak256()
		placeholders = make(map[string]int)
		i            = 0
	)
	for i < len(disassembly) {
		c := disassembly[i]
		if !isTokenByte(c) {
			// Punctuation is structure; whitespace is not.
			if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
				hasher.Write([]byte{c})
			}
			i++
			continue
		}
		start := i
		for i < len(disassembly) && isTokenByte(disassembly[i]) {
			i++
		}
		token := string(disassembly[start:i])
		switch {
		case isStructural(token):
			hasher.Write([]byte(token))
		default:
			index, ok := placeholders[token]
			if !ok {
				index = len(placeholders)
				placeholders[token] = index
			}
			fmt.Fprintf(hasher, "$%d", index)
		}
		// Token boundary marker, so "ab c" and "a bc" differ.
		hasher.Write([]byte{0})
	}
	return common.BytesToFeatureHash(hasher.Sum(nil))
}

// isStructural reports whether a token passes through normalization
// untouched. Dotted tokens ("u64.public", "r0.owner") count as structural
// only when every part does, so visibility suffixes survive while member
// access on user-named fields does not.
func isStructural(token string) bool {
	if structuralTokens.Contains(token) || isRegister(token) || isNumeric(token) {
		return true
	}
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		if !structuralTokens.Contains(part) && !isRegister(part) && !isNumeric(part) {
			return false
		}
	}
	return true
}

func isTokenByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}

// isRegister reports whether a token is a positional register reference
// (r0, r1, ...), optionally with member access stripped by tokenization.
func isRegister(token string) bool {
	if len(token) < 2 || token[0] != 'r' {
		return false
	}
	_, err := strconv.ParseUint(token[1:], 10, 32)
	return err == nil
}

// isNumeric reports whether a token is a literal (possibly typed, e.g.
// "1u64", handled because the type suffix is itself structural after the
// digits).
func isNumeric(token string) bool {
	return len(token) > 0 && token[0] >= '0' && token[0] <= '9'
}
