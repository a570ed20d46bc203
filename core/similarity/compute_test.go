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

import "testing"

const tokenProgram = `program token.aleo;

mapping balances:
    key as address.public;
    value as u64.public;

function transfer:
    input r0 as address.private;
    input r1 as u64.private;
    add r1 1u64 into r2;
    output r2 as u64.private;
`

// The same disassembly with every user-chosen name replaced.
const renamedProgram = `program coin.aleo;

mapping holdings:
    key as address.public;
    value as u64.public;

function move:
    input r0 as address.private;
    input r1 as u64.private;
    add r1 1u64 into r2;
    output r2 as u64.private;
`

// The same names, but a structurally different instruction.
const alteredProgram = `program token.aleo;

mapping balances:
    key as address.public;
    value as u64.public;

function transfer:
    input r0 as address.private;
    input r1 as u64.private;
    sub r1 1u64 into r2;
    output r2 as u64.private;
`

func TestComputeDeterministic(t *testing.T) {
	first := Compute([]byte(tokenProgram))
	second := Compute([]byte(tokenProgram))
	if first != second {
		t.Fatalf("hash not deterministic: %v != %v", first, second)
	}
}

func TestComputeIgnoresNames(t *testing.T) {
	if Compute([]byte(tokenProgram)) != Compute([]byte(renamedProgram)) {
		t.Fatalf("renamed program hashed differently")
	}
}

func TestComputeSeesStructure(t *testing.T) {
	if Compute([]byte(tokenProgram)) == Compute([]byte(alteredProgram)) {
		t.Fatalf("structurally different programs hashed identically")
	}
}

func TestComputeIgnoresWhitespace(t *testing.T) {
	spaced := "function  transfer:\n\tadd r0 r1 into r2;\n"
	tight := "function transfer:\nadd r0 r1 into r2;\n"
	if Compute([]byte(spaced)) != Compute([]byte(tight)) {
		t.Fatalf("whitespace changed the hash")
	}
}

func TestComputeTokenBoundaries(t *testing.T) {
	if Compute([]byte("input r0")) == Compute([]byte("inputr0")) {
		t.Fatalf("token boundary lost in normalization")
	}
}
